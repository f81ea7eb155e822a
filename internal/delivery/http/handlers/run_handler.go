package handlers

import (
	"audio-translator/internal/domain/dto"
	"audio-translator/internal/usecases"
	"audio-translator/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type RunHandler struct {
	runService usecases.RunService
}

func NewRunHandler(runService usecases.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// CreateRun
//
// @Summary      Queue a pipeline run
// @Description  Queues ingest, transcription, translation and synthesis of one audio file
// @Tags         Runs
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateRunRequestDTO true "Run parameters"
// @Success      202      {object}  dto.CreateRunResponse
// @Failure      400      {object}  dto.ErrorResponse "Invalid request"
// @Failure      500      {object}  dto.ErrorResponse "Internal server error"
// @Router       /runs [post]
func (h *RunHandler) CreateRun(c *fiber.Ctx) error {
	req := new(dto.CreateRunRequestDTO)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:  "invalid_body",
			Detail: err.Error(),
		})
	}

	resp, err := h.runService.SubmitRun(c.UserContext(), req)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetRun
//
// @Summary      Get run status
// @Description  Returns the latest recorded status and stage of a queued run
// @Tags         Runs
// @Produce      json
// @Param        id   path      string true "Run ID"
// @Success      200  {object}  dto.RunStatusResponse
// @Failure      404  {object}  dto.ErrorResponse "Unknown run"
// @Router       /runs/{id} [get]
func (h *RunHandler) GetRun(c *fiber.Ctx) error {
	resp, err := h.runService.GetRunStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(resp)
}
