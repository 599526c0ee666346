package assemblyai

import (
	"context"
	stderrors "errors"
	"maps"
	"net/url"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/resilience"
)

const transcriptPath = "/v2/transcript"

// Transcripts drives one job at a time through submit and status polling.
// It holds no per-job state and is safe for concurrent use.
type Transcripts struct {
	http    *httpclient.Adapter
	poll    resilience.PollConfig
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewTranscripts creates a job runner. metrics may be nil.
func NewTranscripts(a *httpclient.Adapter, poll resilience.PollConfig, log *logger.Logger, metrics *observability.Metrics) *Transcripts {
	return &Transcripts{http: a, poll: poll, log: log, metrics: metrics}
}

// Transcribe submits a job for audioURL and waits for it to finish.
func (t *Transcripts) Transcribe(ctx context.Context, audioURL string, params map[string]any) (*Transcript, error) {
	job, err := t.Submit(ctx, audioURL, params)
	if err != nil {
		return nil, err
	}
	return t.Wait(ctx, job)
}

// Submit creates a job. params are sent alongside audio_url; a non-empty
// audioURL overrides any audio_url in params. A job already reported as
// failed is returned as TRANSCRIPTION_FAILED.
func (t *Transcripts) Submit(ctx context.Context, audioURL string, params map[string]any) (*Transcript, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSubmit)
	defer span.End()

	body := make(map[string]any, len(params)+1)
	maps.Copy(body, params)
	if audioURL != "" {
		body["audio_url"] = audioURL
	} else if s, ok := body["audio_url"].(string); !ok || s == "" {
		return nil, errors.InvalidInput("audio_url", "an audio URL or params containing audio_url is required")
	}

	if err := ctx.Err(); err != nil {
		return nil, contextError("submit", err)
	}
	resp, err := httpclient.Post[Transcript](ctx, t.http, transcriptPath, body)
	if err != nil {
		err = mapError("submit", err)
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	job := &resp.Data
	observability.SetSpanAttribute(ctx, observability.AttrTranscriptID, job.ID)
	t.log.Debug("transcript submitted", logger.Fields(
		logger.FieldTranscriptID, job.ID,
		logger.FieldState, string(job.Status),
	))

	if err := checkSnapshot(job); err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	if !job.Status.Terminal() && job.ID == "" {
		return nil, errors.MalformedResponse(serviceName, "id")
	}
	return job, nil
}

// Get fetches one fresh snapshot of job id.
func (t *Transcripts) Get(ctx context.Context, id string) (*Transcript, error) {
	if id == "" {
		return nil, errors.InvalidInput("id", "transcript id is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError("poll", err)
	}
	resp, err := httpclient.Get[Transcript](ctx, t.http, transcriptPath+"/"+url.PathEscape(id))
	if err != nil {
		return nil, mapError("poll", err)
	}
	return &resp.Data, nil
}

// Wait polls a submitted job until it completes. Each status check is
// preceded by the poll interval. Polling stops on the first error,
// failed job or unknown status.
func (t *Transcripts) Wait(ctx context.Context, job *Transcript) (*Transcript, error) {
	if err := checkSnapshot(job); err != nil {
		return nil, err
	}
	if job.Status == StatusCompleted {
		return job, nil
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanPoll)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrTranscriptID, job.ID)

	last := job.Status
	result, err := resilience.Poll(ctx, t.poll, func(ctx context.Context, attempt int) (*Transcript, bool, error) {
		snap, err := t.Get(ctx, job.ID)
		if err != nil {
			return nil, false, err
		}
		if t.metrics != nil {
			t.metrics.RecordPoll(ctx, ProviderName, string(snap.Status))
		}
		observability.SetSpanAttribute(ctx, observability.AttrPollAttempt, attempt)
		if snap.Status != last {
			t.log.Debug("transcript status changed", logger.Fields(
				logger.FieldTranscriptID, job.ID,
				logger.FieldState, string(snap.Status),
				logger.FieldAttempt, attempt,
			))
			last = snap.Status
		}

		if err := checkSnapshot(snap); err != nil {
			return nil, false, err
		}
		return snap, snap.Status == StatusCompleted, nil
	})
	if err != nil {
		err = pollError(err, t.poll.MaxAttempts)
		observability.SetSpanAttribute(ctx, observability.AttrStatus, string(last))
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	observability.SetSpanAttribute(ctx, observability.AttrStatus, string(result.Status))
	return result, nil
}

// checkSnapshot enforces the terminal error policy: a failed job is always
// an error, and unknown states stop the job.
func checkSnapshot(job *Transcript) error {
	switch {
	case job.Status == StatusError:
		return errors.TranscriptionFailed(job.ID, job.Error)
	case !job.Status.Known():
		return errors.ProtocolViolation(job.ID, string(job.Status))
	}
	return nil
}

func pollError(err error, maxAttempts int) error {
	if stderrors.Is(err, resilience.ErrPollBudgetExhausted) {
		return errors.Timeout("transcript polling").
			WithDetail("attempts", maxAttempts).
			WithCause(err)
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return contextError("poll", err)
}
