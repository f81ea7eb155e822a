package usecases

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/pkg/errors"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
	failKey string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(ctx context.Context, ns, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.failKey {
		return fmt.Errorf("put %s refused", key)
	}
	m.objects[ns+"/"+key] = append([]byte(nil), data...)
	m.puts = append(m.puts, ns+"/"+key)
	return nil
}

func (m *memStore) Get(ctx context.Context, ns, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[ns+"/"+key]
	if !ok {
		return nil, errors.ErrNotFound(ns + "/" + key)
	}
	return data, nil
}

func (m *memStore) PutFile(ctx context.Context, ns, key, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	return m.Put(ctx, ns, key, data)
}

func (m *memStore) object(ns, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[ns+"/"+key]
	return string(data), ok
}

// fakeTranscriber delivers document into the store on submit and then walks
// through statuses, repeating the last one.
type fakeTranscriber struct {
	store     *memStore
	document  string
	statuses  []entities.JobStatus
	errs      []error
	reason    string
	submitted []repositories.TranscriptionRequest
	checks    int
}

func (f *fakeTranscriber) Submit(ctx context.Context, req repositories.TranscriptionRequest) (string, error) {
	f.submitted = append(f.submitted, req)
	f.checks = 0
	if f.store != nil && req.OutputNamespace != "" {
		f.store.Put(ctx, req.OutputNamespace, req.OutputKey, []byte(f.document))
	}
	return req.JobName, nil
}

func (f *fakeTranscriber) Status(ctx context.Context, jobName string) (entities.Job, error) {
	i := f.checks
	f.checks++
	if i < len(f.errs) && f.errs[i] != nil {
		return entities.Job{}, f.errs[i]
	}
	status := f.statuses[len(f.statuses)-1]
	if i < len(f.statuses) {
		status = f.statuses[i]
	}
	job := entities.Job{Name: jobName, Status: status}
	switch status {
	case entities.JobStatusCompleted:
		last := f.submitted[len(f.submitted)-1]
		job.Result = entities.ResultLocator{Kind: entities.LocatorStorage, Namespace: last.OutputNamespace, Key: last.OutputKey}
	case entities.JobStatusFailed:
		job.FailureReason = f.reason
	}
	return job, nil
}

type storeFetcher struct {
	store *memStore
}

func (s storeFetcher) Fetch(ctx context.Context, loc entities.ResultLocator) ([]byte, error) {
	return s.store.Get(ctx, loc.Namespace, loc.Key)
}

type fakeTranslator struct {
	calls []string
	out   map[string]string
	err   error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, src, dst string) (string, error) {
	f.calls = append(f.calls, src+">"+dst+":"+text)
	if f.err != nil {
		return "", f.err
	}
	if out, ok := f.out[text]; ok {
		return out, nil
	}
	return "[" + dst + "]" + text, nil
}

type fakeSynthesizer struct {
	texts     []string
	voices    []string
	languages []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice, lang string) ([]byte, error) {
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voice)
	f.languages = append(f.languages, lang)
	return []byte("MP3(" + text + ")"), nil
}

// fakeClock advances only when the code under test sleeps.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return nil
}
