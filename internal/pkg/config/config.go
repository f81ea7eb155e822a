package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/pkg/errors"
	"audio-translator/pkg/helper"
)

type Config struct {
	AWS        AWSConfig
	Storage    StorageConfig
	Run        RunConfig
	Transcribe TranscribeConfig
	Translate  TranslateConfig
	Synth      SynthConfig
	OpenAI     OpenAIConfig
	Redis      RedisConfig
	Server     ServerConfig
	TempDir    string
	LogLevel   string
}

type AWSConfig struct {
	Region string
}

type StorageConfig struct {
	Backend    string // s3, minio or local
	ProdBucket string
	BetaBucket string
	ProdPrefix string
	BetaPrefix string
	LocalDir   string
	MinIO      MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// RunConfig is the one-shot run described by the environment.
type RunConfig struct {
	Filename       string
	SourceDir      string
	SourceLanguage string
	TargetLanguage string
	VoiceID        string
	SkipIngest     bool
}

type TranscribeConfig struct {
	JobNamePrefix  string
	ResultStrategy string // storage or uri
	Poll           PollConfig
}

type PollConfig struct {
	Interval    time.Duration
	Backoff     float64
	MaxInterval time.Duration
	MaxWait     time.Duration
	MaxAttempts int
}

type TranslateConfig struct {
	Provider string // aws or openai
	MaxBytes int
}

type SynthConfig struct {
	Provider     string // aws or openai
	MaxBytes     int
	LanguageCode string
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	SpeechModel string
}

type RedisConfig struct {
	Host string
	Port string
}

type ServerConfig struct {
	Port string
	Host string
}

const (
	BackendS3    = "s3"
	BackendMinIO = "minio"
	BackendLocal = "local"

	ProviderAWS    = "aws"
	ProviderOpenAI = "openai"
)

func LoadConfig() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendS3)),
			ProdBucket: os.Getenv("S3_BUCKET_PROD"),
			BetaBucket: os.Getenv("S3_BUCKET_BETA"),
			ProdPrefix: getEnv("PROD_PREFIX", "prod"),
			BetaPrefix: getEnv("BETA_PREFIX", "beta"),
			LocalDir:   getEnv("LOCAL_STORAGE_DIR", "storage"),
			MinIO: MinIOConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				UseSSL:    getEnvAsBool("MINIO_USE_SSL", true),
			},
		},
		Run: RunConfig{
			Filename:       os.Getenv("FILENAME"),
			SourceDir:      getEnv("SOURCE_DIR", "."),
			SourceLanguage: os.Getenv("SOURCE_LANG"),
			TargetLanguage: os.Getenv("TRANSLATE_LANG"),
			VoiceID:        os.Getenv("POLLY_VOICE"),
			SkipIngest:     getEnvAsBool("SKIP_INGEST", false),
		},
		Transcribe: TranscribeConfig{
			JobNamePrefix:  getEnv("JOB_NAME_PREFIX", "PixelLearn"),
			ResultStrategy: strings.ToLower(getEnv("RESULT_STRATEGY", string(entities.LocatorStorage))),
			Poll: PollConfig{
				Interval:    getEnvAsDuration("POLL_INTERVAL", 5*time.Second),
				Backoff:     getEnvAsFloat("POLL_BACKOFF", 1.0),
				MaxInterval: getEnvAsDuration("POLL_MAX_INTERVAL", time.Minute),
				MaxWait:     getEnvAsDuration("POLL_MAX_WAIT", 30*time.Minute),
				MaxAttempts: int(getEnvAsInt64("POLL_MAX_ATTEMPTS", 0)),
			},
		},
		Translate: TranslateConfig{
			Provider: strings.ToLower(getEnv("TRANSLATOR", ProviderAWS)),
			MaxBytes: int(getEnvAsInt64("TRANSLATE_MAX_BYTES", 10000)),
		},
		Synth: SynthConfig{
			Provider:     strings.ToLower(getEnv("SYNTHESIZER", ProviderAWS)),
			MaxBytes:     int(getEnvAsInt64("SYNTH_MAX_BYTES", 3000)),
			LanguageCode: os.Getenv("SYNTH_LANGUAGE_CODE"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			SpeechModel: getEnv("OPENAI_SPEECH_MODEL", "tts-1"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		TempDir:  getEnv("TEMP_DIR", os.TempDir()),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the service-level settings every entry point needs.
// Per-run values are checked by ValidateRun.
func (c *Config) Validate() error {
	if c.Storage.ProdBucket == "" {
		return errors.ErrConfiguration("S3_BUCKET_PROD is required")
	}
	if c.Storage.BetaBucket == "" {
		return errors.ErrConfiguration("S3_BUCKET_BETA is required")
	}

	switch c.Storage.Backend {
	case BackendS3, BackendLocal:
	case BackendMinIO:
		if c.Storage.MinIO.Endpoint == "" {
			return errors.ErrConfiguration("MINIO_ENDPOINT is required for the minio backend")
		}
	default:
		return errors.ErrConfiguration("unsupported STORAGE_BACKEND: " + c.Storage.Backend)
	}

	switch entities.LocatorKind(c.Transcribe.ResultStrategy) {
	case entities.LocatorStorage, entities.LocatorURI:
	default:
		return errors.ErrConfiguration("unsupported RESULT_STRATEGY: " + c.Transcribe.ResultStrategy)
	}

	providers := []struct{ name, value string }{
		{"TRANSLATOR", c.Translate.Provider},
		{"SYNTHESIZER", c.Synth.Provider},
	}
	for _, p := range providers {
		switch p.value {
		case ProviderAWS:
		case ProviderOpenAI:
			if c.OpenAI.APIKey == "" {
				return errors.ErrConfiguration("OPENAI_API_KEY is required when " + p.name + "=openai")
			}
		default:
			return errors.ErrConfiguration("unsupported " + p.name + ": " + p.value)
		}
	}

	if c.Transcribe.Poll.Interval <= 0 {
		return errors.ErrConfiguration("POLL_INTERVAL must be positive")
	}
	if c.Transcribe.Poll.MaxWait <= 0 {
		return errors.ErrConfiguration("POLL_MAX_WAIT must be positive")
	}
	return nil
}

// ValidateRun checks the required per-run values.
func ValidateRun(req entities.RunRequest) error {
	required := []struct{ name, value string }{
		{"FILENAME", req.Filename},
		{"SOURCE_LANG", req.SourceLanguage},
		{"TRANSLATE_LANG", req.TargetLanguage},
		{"POLLY_VOICE", req.VoiceID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.ErrConfiguration(r.name + " is required")
		}
	}
	if strings.ContainsAny(req.Filename, `/\`) {
		return errors.ErrConfiguration("FILENAME must be a base name without directories")
	}
	if helper.IsAudioFile(req.Filename) {
		return errors.ErrConfiguration("FILENAME must not include the audio extension")
	}
	return nil
}

// RunRequest builds the run described by the environment.
func (c *Config) RunRequest(runID string) entities.RunRequest {
	return entities.RunRequest{
		RunID:          runID,
		Filename:       c.Run.Filename,
		SourceLanguage: c.Run.SourceLanguage,
		TargetLanguage: c.Run.TargetLanguage,
		VoiceID:        c.Run.VoiceID,
		SkipIngest:     c.Run.SkipIngest,
	}
}

func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

func (c *Config) ServerAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("5s") or bare seconds ("5").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
