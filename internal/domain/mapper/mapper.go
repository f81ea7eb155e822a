package mapper

import (
	"strings"
	"time"

	"audio-translator/internal/domain/dto"
	"audio-translator/internal/domain/entities"
)

func ToRunRequest(runID string, req *dto.CreateRunRequestDTO) entities.RunRequest {
	return entities.RunRequest{
		RunID:          runID,
		Filename:       strings.TrimSpace(req.Filename),
		SourceLanguage: strings.TrimSpace(req.SourceLanguage),
		TargetLanguage: strings.TrimSpace(req.TargetLanguage),
		VoiceID:        strings.TrimSpace(req.VoiceID),
		SkipIngest:     req.SkipIngest,
	}
}

func ToRunStatusResponse(s *entities.RunStatus) *dto.RunStatusResponse {
	resp := &dto.RunStatusResponse{
		RunID:   s.RunID,
		Status:  s.Status,
		Stage:   s.Stage,
		Message: s.Message,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
