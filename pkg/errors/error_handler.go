package errors

import (
	stderrors "errors"
	"log"

	"audio-translator/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var pe *PipelineError
	if stderrors.As(err, &pe) {
		if pe.Err != nil {
			log.Printf("Pipeline error [%s]: %v", pe.Code, pe.Err)
		}

		return c.Status(StatusFor(pe.Code)).JSON(fiber.Map{
			"error":   pe.Code,
			"message": i18n.T(pe.Code),
			"detail":  pe.Message,
		})
	}

	log.Printf("Unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": i18n.T("internal_error"),
	})
}

// StatusFor maps an error code to the HTTP status returned by the API.
func StatusFor(code string) int {
	switch code {
	case CodeConfiguration:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeJobTimedOut:
		return fiber.StatusGatewayTimeout
	case CodeTransientNetwork:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
