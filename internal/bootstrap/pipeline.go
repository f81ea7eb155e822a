// Package bootstrap wires configured adapters into the pipeline.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/locator"
	"audio-translator/internal/infrastructure/speech"
	"audio-translator/internal/infrastructure/storage"
	"audio-translator/internal/infrastructure/translate"
	"audio-translator/internal/pkg/config"
	"audio-translator/internal/usecases"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
)

const resultFetchTimeout = time.Minute

// NewPipeline validates cfg and builds a pipeline from the adapters it names.
func NewPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*usecases.Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Transcription always runs on AWS, so credentials are always needed.
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store, err := storage.NewObjectStore(ctx, cfg, awsCfg)
	if err != nil {
		return nil, err
	}

	delivery := entities.LocatorKind(cfg.Transcribe.ResultStrategy)
	deps := usecases.PipelineDeps{
		Store:       store,
		Transcriber: speech.NewAWSTranscriber(awsCfg, delivery),
		Fetcher: &locator.Router{
			Storage: locator.NewStorageFetcher(store),
			URI:     locator.NewURIFetcher(resultFetchTimeout),
		},
		Translator:  newTranslator(cfg, awsCfg),
		Synthesizer: newSynthesizer(cfg, awsCfg),
		Logger:      logger,
	}

	logger.Info("pipeline configured",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("result_strategy", cfg.Transcribe.ResultStrategy),
		zap.String("translator", cfg.Translate.Provider),
		zap.String("synthesizer", cfg.Synth.Provider),
		zap.String("region", cfg.AWS.Region))

	return usecases.NewPipeline(deps, usecases.PipelineOptionsFromConfig(cfg)), nil
}

func newTranslator(cfg *config.Config, awsCfg aws.Config) repositories.Translator {
	if cfg.Translate.Provider == config.ProviderOpenAI {
		return translate.NewOpenAITranslator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
	return translate.NewAWSTranslator(awsCfg)
}

func newSynthesizer(cfg *config.Config, awsCfg aws.Config) repositories.Synthesizer {
	if cfg.Synth.Provider == config.ProviderOpenAI {
		return speech.NewOpenAISynthesizer(cfg.OpenAI.APIKey, cfg.OpenAI.SpeechModel)
	}
	return speech.NewPollySynthesizer(awsCfg)
}
