package assemblyai

// Status is the lifecycle state reported for a transcript.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Known reports whether s is one of the documented states.
func (s Status) Known() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Transcript is one snapshot of a transcription job. Every status check
// decodes a fresh snapshot.
type Transcript struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	// Text is nil until the job completes.
	Text *string `json:"text"`
	// Error is the service's failure text when Status is error.
	Error string `json:"error,omitempty"`

	AudioURL      string      `json:"audio_url,omitempty"`
	LanguageCode  string      `json:"language_code,omitempty"`
	AudioDuration float64     `json:"audio_duration,omitempty"`
	Confidence    float64     `json:"confidence,omitempty"`
	Utterances    []Utterance `json:"utterances,omitempty"`
}

// Utterance is a speaker-labelled span. Times are in milliseconds.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

// UploadResult is the body returned by the upload endpoint.
type UploadResult struct {
	UploadURL string `json:"upload_url"`
}
