package assemblyai

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

const uploadPath = "/v2/upload"

// Uploader pushes audio to the upload endpoint and returns the URL the
// service assigned to it. It does not check whether filesystem access is
// allowed; callers must.
type Uploader struct {
	http *httpclient.Adapter
	log  *logger.Logger
	open func(name string) (*os.File, error)
}

// NewUploader creates an Uploader on an authenticated adapter.
func NewUploader(a *httpclient.Adapter, log *logger.Logger) *Uploader {
	return &Uploader{http: a, log: log, open: os.Open}
}

// UploadFile streams the file at path. The file is closed on every path.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := u.open(path)
	if err != nil {
		return "", fileError(path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fileError(path, err)
	}
	if info.IsDir() {
		return "", errors.InvalidInput("input", fmt.Sprintf("%s is a directory", path))
	}

	u.log.Debug("uploading file", logger.Fields(logger.FieldSource, path, "bytes", info.Size()))
	// Only regular files can be rewound after sniffing; pipes and devices
	// are streamed untouched.
	if info.Mode().IsRegular() && u.log.DebugEnabled() {
		u.logFormat(f, path)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", fileError(path, err)
		}
	}
	return u.Upload(ctx, f)
}

// logFormat logs the audio format of f. Unknown formats are not an error;
// the service decides what it accepts.
func (u *Uploader) logFormat(f *os.File, path string) {
	info, err := audio.Probe(f, path)
	if err != nil {
		u.log.Debug("audio format not recognised", logger.Fields(logger.FieldSource, path, "reason", err.Error()))
		return
	}
	u.log.Debug("local audio", logger.Fields(
		logger.FieldSource, path,
		"format", info.Format,
		"duration", info.Duration.String(),
		"sample_rate", info.SampleRate,
		"channels", info.Channels,
	))
}

// Upload streams r as the request body.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpload)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return "", contextError("upload", err)
	}

	resp, err := httpclient.Post[UploadResult](ctx, u.http, uploadPath, r)
	if err != nil {
		err = mapError("upload", err)
		observability.SetSpanError(ctx, err)
		return "", err
	}
	if resp.Data.UploadURL == "" {
		err := errors.MalformedResponse(serviceName, "upload_url")
		observability.SetSpanError(ctx, err)
		return "", err
	}

	u.log.Debug("upload complete", logger.Fields(logger.FieldAudioURL, resp.Data.UploadURL))
	return resp.Data.UploadURL, nil
}

// fileError maps filesystem failures, keeping the os error as cause.
func fileError(path string, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.NotFound("file", path).WithCause(err)
	case stderrors.Is(err, fs.ErrPermission):
		return errors.Forbidden(fmt.Sprintf("Cannot read %s.", path)).WithCause(err)
	default:
		return errors.InvalidInput("input", err.Error()).WithCause(err)
	}
}
