package file

import (
	"os"
	"path/filepath"
	"testing"
)

// TestKeysMatchPublishedLayout verifies the four artifact keys byte for byte.
func TestKeysMatchPublishedLayout(t *testing.T) {
	keys := NewKeys("prod", "beta")

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"source", keys.SourceAudio("lesson1"), "prod/audio/lesson1.mp3"},
		{"transcript", keys.Transcript("lesson1"), "beta/transcripts/lesson1.txt"},
		{"translation", keys.Translation("lesson1", "es"), "beta/translations/lesson1_es.txt"},
		{"output", keys.OutputAudio("lesson1", "es"), "prod/audio_outputs/lesson1_es.mp3"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s key = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

// TestKeysAreDeterministic checks repeated derivation never changes.
func TestKeysAreDeterministic(t *testing.T) {
	keys := NewKeys("prod", "beta")
	pairs := [][2]string{{"lesson1", "es"}, {"intro", "fr"}, {"a-b_c", "pt-BR"}}

	for _, p := range pairs {
		first := []string{keys.SourceAudio(p[0]), keys.Transcript(p[0]), keys.Translation(p[0], p[1]), keys.OutputAudio(p[0], p[1])}
		second := []string{keys.SourceAudio(p[0]), keys.Transcript(p[0]), keys.Translation(p[0], p[1]), keys.OutputAudio(p[0], p[1])}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("key %d changed between calls: %q vs %q", i, first[i], second[i])
			}
		}
	}
}

// TestKeysTrimAndSkipEmptyPrefixes checks prefix normalisation.
func TestKeysTrimAndSkipEmptyPrefixes(t *testing.T) {
	keys := NewKeys("/prod/", "")
	if got := keys.SourceAudio("x"); got != "prod/audio/x.mp3" {
		t.Fatalf("source = %q", got)
	}
	if got := keys.Transcript("x"); got != "transcripts/x.txt" {
		t.Fatalf("transcript = %q", got)
	}
}

// TestCalculateFileHash checks the digest of a known payload.
func TestCalculateFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := CalculateFileHash(path)
	if err != nil {
		t.Fatalf("CalculateFileHash() error = %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("hash = %s, want %s", got, want)
	}
}
