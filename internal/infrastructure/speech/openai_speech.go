package speech

import (
	"context"
	"io"
	"strings"

	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/transient"

	openai "github.com/sashabaranov/go-openai"
)

type openAISpeechAPI interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

var openAIVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// OpenAISynthesizer renders text to MP3 with the OpenAI speech endpoint.
// Voice ids that are not OpenAI voices fall back to alloy; the language is
// inferred by the model from the text.
type OpenAISynthesizer struct {
	client openAISpeechAPI
	model  openai.SpeechModel
}

var _ repositories.Synthesizer = (*OpenAISynthesizer)(nil)

func NewOpenAISynthesizer(apiKey, model string) *OpenAISynthesizer {
	if model == "" {
		model = string(openai.TTSModel1)
	}
	return &OpenAISynthesizer{client: openai.NewClient(apiKey), model: openai.SpeechModel(model)}
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text, voiceID, _ string) ([]byte, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          o.model,
		Input:          text,
		Voice:          resolveVoice(voiceID),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, transient.Classify("openai speech", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, transient.Classify("openai read audio", err)
	}
	return audio, nil
}

func resolveVoice(voiceID string) openai.SpeechVoice {
	if v, ok := openAIVoices[strings.ToLower(voiceID)]; ok {
		return v
	}
	return openai.VoiceAlloy
}
