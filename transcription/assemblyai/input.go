package assemblyai

import (
	"net/url"

	"github.com/kbukum/speechkit/errors"
)

// InputKind tells how an input string must be turned into an audio URL.
type InputKind int

const (
	// InputRemote is a URL the service can fetch directly.
	InputRemote InputKind = iota
	// InputLocal is a filesystem path that must be uploaded first.
	InputLocal
)

func (k InputKind) String() string {
	if k == InputLocal {
		return "local"
	}
	return "remote"
}

// Input is a classified transcription input.
type Input struct {
	Kind InputKind
	// Value is the remote URL unchanged, or the local path.
	Value string
}

// ClassifyInput decides whether input is a remote URL or a local path.
// Absolute URIs with the file scheme yield their path component, other
// absolute URIs are remote, and anything else is a path taken verbatim.
// It performs no I/O.
func ClassifyInput(input string) (Input, error) {
	if input == "" {
		return Input{}, errors.InvalidInput("input", "the input parameter is required")
	}

	// C:\audio.wav parses with scheme "c"
	if isDriveLetterPath(input) {
		return Input{Kind: InputLocal, Value: input}, nil
	}

	u, err := url.Parse(input)
	if err != nil || !u.IsAbs() {
		return Input{Kind: InputLocal, Value: input}, nil
	}
	if u.Scheme != "file" {
		return Input{Kind: InputRemote, Value: input}, nil
	}
	return Input{Kind: InputLocal, Value: fileURIPath(u)}, nil
}

func isDriveLetterPath(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// fileURIPath returns the percent-decoded local path of a file URI. A
// non-local host becomes a UNC-style "//host/..." prefix.
func fileURIPath(u *url.URL) string {
	p := u.Path
	if p == "" {
		p = u.Opaque
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
	}
	if u.Host != "" && u.Host != "localhost" {
		return "//" + u.Host + p
	}
	return p
}
