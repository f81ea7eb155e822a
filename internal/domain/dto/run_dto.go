package dto

type CreateRunRequestDTO struct {
	Filename       string `json:"filename"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	VoiceID        string `json:"voice_id"`
	SkipIngest     bool   `json:"skip_ingest"`
}

type CreateRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

type RunStatusResponse struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	Stage     string `json:"stage,omitempty"`
	Message   string `json:"message,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
