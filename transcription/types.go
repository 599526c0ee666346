package transcription

import "io"

// Request describes one transcription call.
type Request struct {
	// Input is a remote audio URL, a file:// URI or a local path.
	Input string `json:"input,omitempty"`
	// Audio, when set, is uploaded instead of resolving Input.
	Audio io.Reader `json:"-"`
	// Params are backend-specific job options sent verbatim
	// (e.g. "speaker_labels", "language_code").
	Params map[string]any `json:"params,omitempty"`
}

// Response holds the result of a completed transcription.
type Response struct {
	// ID is the backend's job identifier.
	ID string `json:"id"`
	// Status is the backend's final job status.
	Status string `json:"status"`
	// Text is the full transcript. It may be empty for silent audio.
	Text string `json:"text"`
	// Language is the detected or requested language code.
	Language string `json:"language,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Confidence is the overall transcript confidence (0-1).
	Confidence float64 `json:"confidence,omitempty"`
	// Segments contains speaker-labelled, time-aligned portions.
	Segments []Segment `json:"segments,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Speaker is the identified speaker label, if available.
	Speaker string `json:"speaker,omitempty"`
	// Confidence is the segment confidence (0-1).
	Confidence float64 `json:"confidence,omitempty"`
}
