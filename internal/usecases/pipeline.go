package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/pkg/config"
	"audio-translator/pkg/errors"
	"audio-translator/pkg/file"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const (
	StageIngest     = "ingest"
	StageTranscribe = "transcribe"
	StageExtract    = "extract"
	StageTranslate  = "translate"
	StageSynthesize = "synthesize"
)

// WorkspacePattern names the scratch directories runs create under TempDir.
const WorkspacePattern = "audio-translator-*"

// StageHook is told when a run enters a stage.
type StageHook func(ctx context.Context, runID, stage string)

type PipelineDeps struct {
	Store       repositories.ObjectStore
	Transcriber repositories.TranscriptionService
	Fetcher     repositories.ResultFetcher
	Translator  repositories.Translator
	Synthesizer repositories.Synthesizer
	Logger      *zap.Logger
}

type PipelineOptions struct {
	ProdBucket        string
	BetaBucket        string
	Keys              file.Keys
	SourceDir         string
	TempDir           string
	JobNamePrefix     string
	Delivery          entities.LocatorKind
	Poll              PollPolicy
	TranslateMaxBytes int
	SynthMaxBytes     int
	SynthLanguageCode string
}

func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	p := cfg.Transcribe.Poll
	return PipelineOptions{
		ProdBucket:    cfg.Storage.ProdBucket,
		BetaBucket:    cfg.Storage.BetaBucket,
		Keys:          file.NewKeys(cfg.Storage.ProdPrefix, cfg.Storage.BetaPrefix),
		SourceDir:     cfg.Run.SourceDir,
		TempDir:       cfg.TempDir,
		JobNamePrefix: cfg.Transcribe.JobNamePrefix,
		Delivery:      entities.LocatorKind(cfg.Transcribe.ResultStrategy),
		Poll: PollPolicy{
			Interval:    p.Interval,
			Backoff:     p.Backoff,
			MaxInterval: p.MaxInterval,
			MaxWait:     p.MaxWait,
			MaxAttempts: p.MaxAttempts,
		},
		TranslateMaxBytes: cfg.Translate.MaxBytes,
		SynthMaxBytes:     cfg.Synth.MaxBytes,
		SynthLanguageCode: cfg.Synth.LanguageCode,
	}
}

// Pipeline runs ingest, transcribe, extract, translate and synthesize in
// order and stops at the first failure. Objects already uploaded are left in
// place.
type Pipeline struct {
	deps   PipelineDeps
	opts   PipelineOptions
	poller  *JobPoller
	cleanup CleanupService
	now     func() time.Time
}

func NewPipeline(deps PipelineDeps, opts PipelineOptions) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.Delivery == "" {
		opts.Delivery = entities.LocatorStorage
	}
	return &Pipeline{
		deps:    deps,
		opts:    opts,
		poller:  NewJobPoller(deps.Transcriber, opts.Poll, deps.Logger),
		cleanup: NewCleanupService(opts.TempDir, deps.Logger),
		now:     time.Now,
	}
}

// NewJobName stamps prefix with t to second precision, e.g. PixelLearn-20240102030405.
func NewJobName(prefix string, t time.Time) string {
	return prefix + "-" + t.UTC().Format("20060102150405")
}

func (p *Pipeline) Run(ctx context.Context, req entities.RunRequest) (*entities.RunResult, error) {
	return p.RunWithHook(ctx, req, nil)
}

// RunWithHook is Run with hook called as each stage starts. On failure the
// partial result is returned along with a *errors.PipelineError naming the
// stage and the artifacts produced before it.
func (p *Pipeline) RunWithHook(ctx context.Context, req entities.RunRequest, hook StageHook) (*entities.RunResult, error) {
	if err := config.ValidateRun(req); err != nil {
		return nil, err
	}

	r := &run{
		Pipeline: p,
		req:      req,
		hook:     hook,
		log:      p.deps.Logger.With(zap.String("run_id", req.RunID), zap.String("filename", req.Filename)),
		result:   &entities.RunResult{RunID: req.RunID, StartedAt: p.now()},
	}

	stages := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{StageIngest, r.ingest},
		{StageTranscribe, r.transcribe},
		{StageExtract, r.extract},
		{StageTranslate, r.translate},
		{StageSynthesize, r.synthesize},
	}

	r.log.Info("pipeline started",
		zap.String("source_language", req.SourceLanguage),
		zap.String("target_language", req.TargetLanguage),
		zap.String("voice", req.VoiceID))

	for _, st := range stages {
		if r.hook != nil {
			r.hook(ctx, req.RunID, st.name)
		}
		if err := st.fn(ctx); err != nil {
			return r.fail(st.name, err)
		}
	}

	r.result.FinishedAt = p.now()
	r.log.Info("pipeline finished",
		zap.String("job", r.result.JobName),
		zap.Strings("artifacts", r.result.ArtifactURIs()),
		zap.Duration("took", r.result.FinishedAt.Sub(r.result.StartedAt)))
	return r.result, nil
}

// run carries the state of one pipeline execution between stages.
type run struct {
	*Pipeline
	req    entities.RunRequest
	hook   StageHook
	log    *zap.Logger
	result *entities.RunResult

	audio      entities.ArtifactRef
	job        entities.Job
	transcript string
	translated string
}

func (r *run) fail(stage string, err error) (*entities.RunResult, error) {
	produced := r.result.ArtifactURIs()
	pe := errors.WithStage(err, stage, produced)
	r.result.Error = pe.Error()
	r.result.FinishedAt = r.now()
	r.log.Error("pipeline stage failed",
		zap.String("stage", stage),
		zap.String("code", pe.Code),
		zap.Strings("produced", produced),
		zap.Error(err))
	return r.result, pe
}

func (r *run) produced(ref entities.ArtifactRef, size int) {
	r.result.Artifacts = append(r.result.Artifacts, ref)
	r.log.Info("artifact stored", zap.String("uri", ref.String()), zap.String("size", humanize.Bytes(uint64(size))))
}

func (r *run) ingest(ctx context.Context) error {
	r.audio = entities.ArtifactRef{Namespace: r.opts.ProdBucket, Key: r.opts.Keys.SourceAudio(r.req.Filename)}
	if r.req.SkipIngest {
		r.log.Info("ingest skipped, using stored audio", zap.String("uri", r.audio.String()))
		return nil
	}

	local := file.LocalAudioPath(r.opts.SourceDir, r.req.Filename)
	info, err := os.Stat(local)
	if err != nil {
		return errors.ErrStage("source audio not readable", err)
	}
	if err := r.deps.Store.PutFile(ctx, r.audio.Namespace, r.audio.Key, local); err != nil {
		return err
	}
	r.produced(r.audio, int(info.Size()))
	return nil
}

func (r *run) transcribe(ctx context.Context) error {
	req := repositories.TranscriptionRequest{
		JobName:      NewJobName(r.opts.JobNamePrefix, r.now()),
		Audio:        r.audio,
		LanguageCode: r.req.SourceLanguage,
	}
	if r.opts.Delivery == entities.LocatorStorage {
		req.OutputNamespace = r.opts.BetaBucket
		req.OutputKey = file.JobResultKey(req.JobName)
	}

	name, err := r.deps.Transcriber.Submit(ctx, req)
	if err != nil {
		return err
	}
	r.result.JobName = name
	r.log.Info("transcription job submitted", zap.String("job", name))

	job, err := r.poller.Wait(ctx, name)
	if err != nil {
		return err
	}
	r.job = job
	return nil
}

func (r *run) extract(ctx context.Context) error {
	document, err := r.deps.Fetcher.Fetch(ctx, r.job.Result)
	if err != nil {
		return err
	}
	text, err := ExtractTranscript(document)
	if err != nil {
		return err
	}

	ref := entities.ArtifactRef{Namespace: r.opts.BetaBucket, Key: r.opts.Keys.Transcript(r.req.Filename)}
	if err := r.deps.Store.Put(ctx, ref.Namespace, ref.Key, []byte(text)); err != nil {
		return err
	}
	r.transcript = text
	r.result.Transcript = &entities.Transcript{Text: text, Language: r.req.SourceLanguage}
	r.produced(ref, len(text))
	return nil
}

func (r *run) translate(ctx context.Context) error {
	if strings.TrimSpace(r.transcript) == "" {
		return errors.ErrStage("transcript is empty", nil)
	}
	source := PrimarySubtag(r.req.SourceLanguage)
	chunks := SplitText(r.transcript, r.opts.TranslateMaxBytes)

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := r.deps.Translator.Translate(ctx, chunk, source, r.req.TargetLanguage)
		if err != nil {
			return fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, out)
	}
	translated := JoinChunks(parts)

	ref := entities.ArtifactRef{Namespace: r.opts.BetaBucket, Key: r.opts.Keys.Translation(r.req.Filename, r.req.TargetLanguage)}
	if err := r.deps.Store.Put(ctx, ref.Namespace, ref.Key, []byte(translated)); err != nil {
		return err
	}
	r.translated = translated
	r.result.Translation = &entities.Translation{
		Text:           translated,
		SourceLanguage: source,
		TargetLanguage: r.req.TargetLanguage,
		Chunks:         len(chunks),
	}
	r.produced(ref, len(translated))
	return nil
}

func (r *run) synthesize(ctx context.Context) error {
	if strings.TrimSpace(r.translated) == "" {
		return errors.ErrStage("translation is empty", nil)
	}
	language := SynthesisLanguage(r.req.TargetLanguage, r.opts.SynthLanguageCode)

	workspace, err := os.MkdirTemp(r.opts.TempDir, WorkspacePattern)
	if err != nil {
		return errors.ErrStage("create workspace", err)
	}
	defer r.releaseWorkspace(workspace)

	local := filepath.Join(workspace, file.LocalOutputName(r.req.Filename, r.req.TargetLanguage))
	size, err := r.writeSpeech(ctx, local, language)
	if err != nil {
		return err
	}

	ref := entities.ArtifactRef{Namespace: r.opts.ProdBucket, Key: r.opts.Keys.OutputAudio(r.req.Filename, r.req.TargetLanguage)}
	if err := r.deps.Store.PutFile(ctx, ref.Namespace, ref.Key, local); err != nil {
		return err
	}
	r.produced(ref, size)
	return nil
}

func (r *run) releaseWorkspace(path string) {
	if err := r.cleanup.CleanupWorkspace(path); err != nil {
		r.log.Warn("workspace not removed", zap.String("path", path), zap.Error(err))
	}
}

func (r *run) writeSpeech(ctx context.Context, path, language string) (int, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, errors.ErrStage("create audio file", err)
	}
	defer out.Close()

	chunks := SplitText(r.translated, r.opts.SynthMaxBytes)
	total := 0
	for i, chunk := range chunks {
		audio, err := r.deps.Synthesizer.Synthesize(ctx, chunk, r.req.VoiceID, language)
		if err != nil {
			return 0, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		n, err := out.Write(audio)
		if err != nil {
			return 0, errors.ErrStage("write audio file", err)
		}
		total += n
	}
	if err := out.Sync(); err != nil {
		return 0, errors.ErrStage("flush audio file", err)
	}
	return total, nil
}
