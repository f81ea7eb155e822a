package entities

// Transcript is the plain text recognised from the source audio.
type Transcript struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Translation is a transcript rendered in the target language.
type Translation struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Chunks         int    `json:"chunks"`
}
