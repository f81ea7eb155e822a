package file

import (
	"path/filepath"
	"strings"
)

// Keys derives artifact object keys. Every key is a pure function of the
// prefixes, the source filename and the target language tag.
type Keys struct {
	ProdPrefix string
	BetaPrefix string
}

func NewKeys(prodPrefix, betaPrefix string) Keys {
	return Keys{
		ProdPrefix: strings.Trim(prodPrefix, "/"),
		BetaPrefix: strings.Trim(betaPrefix, "/"),
	}
}

// SourceAudio is where the ingested audio lives in the production bucket.
func (k Keys) SourceAudio(filename string) string {
	return joinKey(k.ProdPrefix, "audio", filename+".mp3")
}

// Transcript is the plain transcript text in the staging bucket.
func (k Keys) Transcript(filename string) string {
	return joinKey(k.BetaPrefix, "transcripts", filename+".txt")
}

// Translation is the translated text in the staging bucket.
func (k Keys) Translation(filename, targetLang string) string {
	return joinKey(k.BetaPrefix, "translations", filename+"_"+targetLang+".txt")
}

// OutputAudio is the synthesized audio in the production bucket.
func (k Keys) OutputAudio(filename, targetLang string) string {
	return joinKey(k.ProdPrefix, "audio_outputs", filename+"_"+targetLang+".mp3")
}

// JobResultKey is the object a transcription job delivers its result document to.
func JobResultKey(jobName string) string {
	return jobName + ".json"
}

// LocalAudioPath is the on-disk source audio for filename.
func LocalAudioPath(dir, filename string) string {
	return filepath.Join(dir, filename+".mp3")
}

// LocalOutputName is the scratch file name used for synthesized audio.
func LocalOutputName(filename, targetLang string) string {
	return filename + "_" + targetLang + ".mp3"
}

func joinKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
