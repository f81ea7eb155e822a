package speech

import (
	"context"
	"fmt"
	"io"

	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/transient"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollySynthesizer renders text to MP3 with Amazon Polly.
type PollySynthesizer struct {
	client pollyAPI
}

var _ repositories.Synthesizer = (*PollySynthesizer)(nil)

func NewPollySynthesizer(cfg aws.Config) *PollySynthesizer {
	return &PollySynthesizer{client: polly.NewFromConfig(cfg)}
}

func (p *PollySynthesizer) Synthesize(ctx context.Context, text, voiceID, languageCode string) ([]byte, error) {
	in := &polly.SynthesizeSpeechInput{
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(text),
		VoiceId:      types.VoiceId(voiceID),
	}
	if languageCode != "" {
		in.LanguageCode = types.LanguageCode(languageCode)
	}

	out, err := p.client.SynthesizeSpeech(ctx, in)
	if err != nil {
		return nil, transient.Classify("polly synthesize", err)
	}
	if out.AudioStream == nil {
		return nil, fmt.Errorf("polly returned no audio stream")
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, transient.Classify("polly read audio", err)
	}
	return audio, nil
}
