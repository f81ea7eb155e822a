package repositories

import (
	"context"

	"audio-translator/internal/domain/entities"
)

// TranscriptionRequest describes one asynchronous speech-to-text job.
// An empty OutputNamespace leaves result delivery to the provider.
type TranscriptionRequest struct {
	JobName         string
	Audio           entities.ArtifactRef
	LanguageCode    string
	OutputNamespace string
	OutputKey       string
}

// TranscriptionService submits and tracks speech-to-text jobs.
type TranscriptionService interface {
	Submit(ctx context.Context, req TranscriptionRequest) (string, error)
	Status(ctx context.Context, jobName string) (entities.Job, error)
}

// ResultFetcher retrieves the result document a finished job points at.
type ResultFetcher interface {
	Fetch(ctx context.Context, loc entities.ResultLocator) ([]byte, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Synthesizer renders text as MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, languageCode string) ([]byte, error)
}
