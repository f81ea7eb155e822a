package usecases

import (
	"encoding/json"

	"audio-translator/pkg/errors"
)

type transcriptDocument struct {
	Results *struct {
		Transcripts []struct {
			Transcript *string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// ExtractTranscript returns results.transcripts[0].transcript from a job's
// result document, exactly as written.
func ExtractTranscript(document []byte) (string, error) {
	var doc transcriptDocument
	if err := json.Unmarshal(document, &doc); err != nil {
		return "", errors.ErrMalformedResult("result document is not valid JSON", err)
	}
	if doc.Results == nil {
		return "", errors.ErrMalformedResult("result document has no results", nil)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", errors.ErrMalformedResult("result document has no transcripts", nil)
	}
	text := doc.Results.Transcripts[0].Transcript
	if text == nil {
		return "", errors.ErrMalformedResult("first transcript has no text", nil)
	}
	return *text, nil
}
