package assemblyai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
)

const maxErrorBody = 512

// mapError converts transport and HTTP failures of operation op into
// AppErrors. Errors that already are AppErrors pass through.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}

	hErr, ok := httpclient.AsError(err)
	if !ok {
		return contextError(op, err)
	}

	switch hErr.Code {
	case httpclient.ErrCodeCanceled:
		return errors.Canceled(op, err)
	case httpclient.ErrCodeTimeout:
		return errors.Timeout(op).WithCause(err)
	case httpclient.ErrCodeConnection:
		return errors.ConnectionFailed(serviceName).WithCause(err)
	case httpclient.ErrCodeDecode:
		return errors.MalformedResponse(serviceName, "").WithCause(err)
	}
	if hErr.StatusCode == 0 {
		return errors.Internal(err)
	}
	return errors.Upstream(serviceName, hErr.StatusCode, errorText(hErr.Body)).WithCause(err)
}

// contextError maps a context error, or anything else, for operation op.
func contextError(op string, err error) error {
	switch {
	case stderrors.Is(err, context.Canceled):
		return errors.Canceled(op, err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout(op).WithCause(err)
	default:
		return errors.Internal(err)
	}
}

// errorText prefers the service's {"error": "..."} message over the raw body.
func errorText(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
