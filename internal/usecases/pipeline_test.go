package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/pkg/errors"
	"audio-translator/pkg/file"

	"go.uber.org/zap"
)

const helloDocument = `{"results":{"transcripts":[{"transcript":"Hello world"}]}}`

type pipelineFixture struct {
	store       *memStore
	transcriber *fakeTranscriber
	translator  *fakeTranslator
	synth       *fakeSynthesizer
	pipeline    *Pipeline
	tempDir     string
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "lesson1.mp3"), []byte("ID3source"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	f := &pipelineFixture{
		store: store,
		transcriber: &fakeTranscriber{
			store:    store,
			document: helloDocument,
			statuses: []entities.JobStatus{entities.JobStatusInProgress, entities.JobStatusCompleted},
		},
		translator: &fakeTranslator{out: map[string]string{"Hello world": "Hola mundo"}},
		synth:      &fakeSynthesizer{},
		tempDir:    t.TempDir(),
	}

	f.pipeline = NewPipeline(PipelineDeps{
		Store:       store,
		Transcriber: f.transcriber,
		Fetcher:     storeFetcher{store: store},
		Translator:  f.translator,
		Synthesizer: f.synth,
		Logger:      zap.NewNop(),
	}, PipelineOptions{
		ProdBucket:        "pixel-prod",
		BetaBucket:        "pixel-beta",
		Keys:              file.NewKeys("prod", "beta"),
		SourceDir:         sourceDir,
		TempDir:           f.tempDir,
		JobNamePrefix:     "PixelLearn",
		Delivery:          entities.LocatorStorage,
		Poll:              PollPolicy{Interval: 5 * time.Second, MaxWait: time.Minute},
		TranslateMaxBytes: 10000,
		SynthMaxBytes:     3000,
	})
	clock := newFakeClock()
	f.pipeline.now = clock.now
	f.pipeline.poller.now = clock.now
	f.pipeline.poller.sleep = clock.sleep
	return f
}

func lessonRequest() entities.RunRequest {
	return entities.RunRequest{
		RunID:          "run-1",
		Filename:       "lesson1",
		SourceLanguage: "en-US",
		TargetLanguage: "es",
		VoiceID:        "Lucia",
	}
}

// TestPipelineRun walks all five stages for lesson1 en-US -> es.
func TestPipelineRun(t *testing.T) {
	f := newPipelineFixture(t)

	var stages []string
	result, err := f.pipeline.RunWithHook(context.Background(), lessonRequest(), func(ctx context.Context, runID, stage string) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.Join(stages, ","); got != "ingest,transcribe,extract,translate,synthesize" {
		t.Fatalf("stages = %s", got)
	}
	if result.JobName != "PixelLearn-20240102030405" {
		t.Fatalf("job name = %q", result.JobName)
	}
	if f.transcriber.checks != 2 {
		t.Fatalf("status checks = %d, want 2", f.transcriber.checks)
	}

	sub := f.transcriber.submitted[0]
	if sub.Audio.String() != "s3://pixel-prod/prod/audio/lesson1.mp3" || sub.LanguageCode != "en-US" {
		t.Fatalf("submitted = %+v", sub)
	}
	if sub.OutputNamespace != "pixel-beta" || sub.OutputKey != "PixelLearn-20240102030405.json" {
		t.Fatalf("output = %s/%s", sub.OutputNamespace, sub.OutputKey)
	}

	expect := map[string]string{
		"pixel-prod/prod/audio/lesson1.mp3":           "ID3source",
		"pixel-beta/beta/transcripts/lesson1.txt":     "Hello world",
		"pixel-beta/beta/translations/lesson1_es.txt": "Hola mundo",
		"pixel-prod/prod/audio_outputs/lesson1_es.mp3": "MP3(Hola mundo)",
	}
	for key, want := range expect {
		ns, k, _ := strings.Cut(key, "/")
		got, ok := f.store.object(ns, k)
		if !ok || got != want {
			t.Fatalf("object %s = %q (exists %v), want %q", key, got, ok, want)
		}
	}

	if len(f.translator.calls) != 1 || f.translator.calls[0] != "en>es:Hello world" {
		t.Fatalf("translate calls = %v", f.translator.calls)
	}
	if f.synth.voices[0] != "Lucia" || f.synth.languages[0] != "es-ES" {
		t.Fatalf("synth voice/lang = %s/%s", f.synth.voices[0], f.synth.languages[0])
	}
	if len(result.Artifacts) != 4 || result.Transcript.Text != "Hello world" || result.Translation.Text != "Hola mundo" {
		t.Fatalf("result = %+v", result)
	}

	leftovers, _ := filepath.Glob(filepath.Join(f.tempDir, WorkspacePattern))
	if len(leftovers) != 0 {
		t.Fatalf("workspace not removed: %v", leftovers)
	}
}

// TestPipelineRunIsIdempotent verifies a second run overwrites the same keys.
func TestPipelineRunIsIdempotent(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	first, err := f.pipeline.Run(ctx, lessonRequest())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := f.pipeline.Run(ctx, lessonRequest())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if strings.Join(first.ArtifactURIs(), ",") != strings.Join(second.ArtifactURIs(), ",") {
		t.Fatalf("artifacts differ: %v vs %v", first.ArtifactURIs(), second.ArtifactURIs())
	}
	if first.JobName == second.JobName {
		t.Fatalf("job names should differ, both %q", first.JobName)
	}
	got, _ := f.store.object("pixel-beta", "beta/translations/lesson1_es.txt")
	if got != "Hola mundo" {
		t.Fatalf("translation = %q", got)
	}
}

// TestPipelineSkipIngest verifies stored audio is reused without upload.
func TestPipelineSkipIngest(t *testing.T) {
	f := newPipelineFixture(t)
	req := lessonRequest()
	req.SkipIngest = true

	result, err := f.pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, ok := f.store.object("pixel-prod", "prod/audio/lesson1.mp3"); ok {
		t.Fatal("source audio should not be uploaded")
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("artifacts = %v", result.ArtifactURIs())
	}
}

// TestPipelineValidatesRequest verifies missing inputs fail before any work.
func TestPipelineValidatesRequest(t *testing.T) {
	f := newPipelineFixture(t)
	req := lessonRequest()
	req.VoiceID = ""

	_, err := f.pipeline.Run(context.Background(), req)
	if !stderrors.Is(err, errors.KindConfiguration) {
		t.Fatalf("Run() error = %v, want configuration_error", err)
	}
	if len(f.store.puts) != 0 || len(f.transcriber.submitted) != 0 {
		t.Fatal("nothing should run for an invalid request")
	}
}

// TestPipelineJobFailed verifies a failed job stops the run at transcribe.
func TestPipelineJobFailed(t *testing.T) {
	f := newPipelineFixture(t)
	f.transcriber.statuses = []entities.JobStatus{entities.JobStatusInProgress, entities.JobStatusFailed}

	result, err := f.pipeline.Run(context.Background(), lessonRequest())
	var pe *errors.PipelineError
	if !stderrors.As(err, &pe) || pe.Code != errors.CodeJobFailed {
		t.Fatalf("Run() error = %v, want job_failed", err)
	}
	if pe.Stage != StageTranscribe {
		t.Fatalf("stage = %q", pe.Stage)
	}
	if len(pe.Produced) != 1 || pe.Produced[0] != "s3://pixel-prod/prod/audio/lesson1.mp3" {
		t.Fatalf("produced = %v", pe.Produced)
	}
	if result == nil || result.Error == "" {
		t.Fatalf("partial result = %+v", result)
	}
	if len(f.translator.calls) != 0 {
		t.Fatal("translate must not run after a failed job")
	}
}

// TestPipelineMalformedResult verifies extraction errors keep their code.
func TestPipelineMalformedResult(t *testing.T) {
	f := newPipelineFixture(t)
	f.transcriber.document = `{"results":{"transcripts":[]}}`

	_, err := f.pipeline.Run(context.Background(), lessonRequest())
	var pe *errors.PipelineError
	if !stderrors.As(err, &pe) || pe.Code != errors.CodeMalformedResult || pe.Stage != StageExtract {
		t.Fatalf("Run() error = %v", err)
	}
}

// TestPipelineEmptyTranscript verifies an empty transcript stops before translation.
func TestPipelineEmptyTranscript(t *testing.T) {
	f := newPipelineFixture(t)
	f.transcriber.document = `{"results":{"transcripts":[{"transcript":""}]}}`

	_, err := f.pipeline.Run(context.Background(), lessonRequest())
	var pe *errors.PipelineError
	if !stderrors.As(err, &pe) || pe.Stage != StageTranslate {
		t.Fatalf("Run() error = %v, want translate stage failure", err)
	}
	if len(pe.Produced) != 2 {
		t.Fatalf("produced = %v", pe.Produced)
	}
}

// TestPipelineTranslatorError verifies a provider error is reported at translate.
func TestPipelineTranslatorError(t *testing.T) {
	f := newPipelineFixture(t)
	f.translator.err = errors.ErrTransientNetwork("translate text", fmt.Errorf("connection reset"))

	_, err := f.pipeline.Run(context.Background(), lessonRequest())
	var pe *errors.PipelineError
	if !stderrors.As(err, &pe) || pe.Code != errors.CodeTransientNetwork || pe.Stage != StageTranslate {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.synth.texts) != 0 {
		t.Fatal("synthesize must not run")
	}
}

// TestPipelineChunksLongText verifies translation and synthesis honour limits.
func TestPipelineChunksLongText(t *testing.T) {
	f := newPipelineFixture(t)
	f.transcriber.document = `{"results":{"transcripts":[{"transcript":"First sentence here. Second sentence here."}]}}`
	f.pipeline.opts.TranslateMaxBytes = 25
	f.pipeline.opts.SynthMaxBytes = 30

	result, err := f.pipeline.Run(context.Background(), lessonRequest())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.translator.calls) != 2 || result.Translation.Chunks != 2 {
		t.Fatalf("translate calls = %v", f.translator.calls)
	}
	want := "[es]First sentence here. [es]Second sentence here."
	if result.Translation.Text != want {
		t.Fatalf("translation = %q", result.Translation.Text)
	}
	audio, _ := f.store.object("pixel-prod", "prod/audio_outputs/lesson1_es.mp3")
	if audio != "MP3("+f.synth.texts[0]+")MP3("+f.synth.texts[1]+")" {
		t.Fatalf("audio = %q, texts = %q", audio, f.synth.texts)
	}
}

// TestPipelineJoinsCJKTranslation verifies translated Japanese chunks are not
// glued together with spaces.
func TestPipelineJoinsCJKTranslation(t *testing.T) {
	f := newPipelineFixture(t)
	f.transcriber.document = `{"results":{"transcripts":[{"transcript":"Good morning. See you later."}]}}`
	f.translator.out = map[string]string{
		"Good morning.":  "おはようございます。",
		"See you later.": "またね。",
	}
	f.pipeline.opts.TranslateMaxBytes = 15
	req := lessonRequest()
	req.TargetLanguage = "ja"
	req.VoiceID = "Mizuki"

	result, err := f.pipeline.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Translation.Chunks != 2 {
		t.Fatalf("chunks = %d, want 2", result.Translation.Chunks)
	}
	if want := "おはようございます。またね。"; result.Translation.Text != want {
		t.Fatalf("translation = %q, want %q", result.Translation.Text, want)
	}
	stored, _ := f.store.object("pixel-beta", "beta/translations/lesson1_ja.txt")
	if stored != result.Translation.Text {
		t.Fatalf("stored translation = %q", stored)
	}
}

// TestPipelineSynthesisUploadFailure verifies the failing stage and prior artifacts.
func TestPipelineSynthesisUploadFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.store.failKey = "prod/audio_outputs/lesson1_es.mp3"

	_, err := f.pipeline.Run(context.Background(), lessonRequest())
	var pe *errors.PipelineError
	if !stderrors.As(err, &pe) || pe.Stage != StageSynthesize || pe.Code != errors.CodeStageFailed {
		t.Fatalf("Run() error = %v", err)
	}
	if len(pe.Produced) != 3 {
		t.Fatalf("produced = %v", pe.Produced)
	}
	leftovers, _ := filepath.Glob(filepath.Join(f.tempDir, WorkspacePattern))
	if len(leftovers) != 0 {
		t.Fatalf("workspace not removed on failure: %v", leftovers)
	}
}

// TestNewJobName verifies the timestamp layout.
func TestNewJobName(t *testing.T) {
	got := NewJobName("PixelLearn", time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC))
	if got != "PixelLearn-20241231235958" {
		t.Fatalf("NewJobName() = %q", got)
	}
}
