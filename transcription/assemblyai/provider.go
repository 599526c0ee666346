package assemblyai

import (
	"context"
	"net/http"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/resilience"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/util"
	"github.com/kbukum/speechkit/version"
)

// msgFileSystemAccessDisabled is returned when a local path is given while
// filesystem access is off.
const msgFileSystemAccessDisabled = "File system access is disabled. Set assemblyai.plugin.allow_file_system_access to true to upload local files."

// Provider implements transcription.Provider on the AssemblyAI REST API.
type Provider struct {
	cfg         Config
	allowFS     bool
	http        *httpclient.Adapter
	uploader    *Uploader
	transcripts *Transcripts
	log         *logger.Logger
}

type options struct {
	allowFS    bool
	log        *logger.Logger
	httpClient *http.Client
	sleep      resilience.SleepFunc
	metrics    *observability.Metrics
}

// Option customizes a Provider.
type Option func(*options)

// WithFileSystemAccess allows local paths to be read and uploaded.
func WithFileSystemAccess(allow bool) Option {
	return func(o *options) { o.allowFS = allow }
}

// WithLogger sets the provider logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithSleep replaces the wait used between status checks and retries.
func WithSleep(sleep resilience.SleepFunc) Option {
	return func(o *options) { o.sleep = sleep }
}

// WithMetrics records status checks on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewProvider validates cfg and creates a provider. An empty API key fails
// here rather than on first use.
func NewProvider(cfg Config, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	log := o.log.WithComponent(ProviderName)

	hcfg := httpclient.Config{
		Name:      serviceName,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: version.UserAgent(),
		Auth:      httpclient.APIKeyAuthHeader(cfg.APIKey, "Authorization"),
	}
	if cfg.Retries > 0 {
		hcfg.Retry = httpclient.DefaultRetryConfig(cfg.Retries + 1)
		hcfg.Retry.Sleep = o.sleep
	}
	var hopts []httpclient.Option
	if o.httpClient != nil {
		hopts = append(hopts, httpclient.WithHTTPClient(o.httpClient))
	}
	adapter, err := httpclient.New(hcfg, hopts...)
	if err != nil {
		return nil, errors.Validation(err.Error()).WithCause(err)
	}

	poll := cfg.Poll
	if o.sleep != nil {
		poll.Sleep = o.sleep
	}

	log.Debug("provider configured", logger.Fields(
		"api_key", util.MaskSecret(cfg.APIKey, 4),
		"base_url", cfg.BaseURL,
		"allow_file_system_access", o.allowFS,
		"poll_interval", poll.Interval.String(),
	))

	return &Provider{
		cfg:         cfg,
		allowFS:     o.allowFS,
		http:        adapter,
		uploader:    NewUploader(adapter, log),
		transcripts: NewTranscripts(adapter, poll, log, o.metrics),
		log:         log,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured. No request is made.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

// AllowsFileSystemAccess reports whether local paths may be uploaded.
func (p *Provider) AllowsFileSystemAccess() bool { return p.allowFS }

// Transcripts exposes the job runner.
func (p *Provider) Transcripts() *Transcripts { return p.transcripts }

// Close releases idle connections.
func (p *Provider) Close(ctx context.Context) error { return p.http.Close(ctx) }

// Execute implements provider.RequestResponse.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	return p.Transcribe(ctx, req)
}

// Transcribe resolves the request's audio to a URL the service can read,
// runs a job to completion and returns its transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	audioURL, err := p.resolveAudio(ctx, req)
	if err != nil {
		return nil, err
	}

	job, err := p.transcripts.Transcribe(ctx, audioURL, req.Params)
	if err != nil {
		return nil, err
	}
	return toResponse(job)
}

// UploadFile uploads a local file and returns its service URL. It is
// subject to the filesystem access flag.
func (p *Provider) UploadFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.InvalidInput("path", "the path parameter is required")
	}
	if !p.allowFS {
		return "", errors.Forbidden(msgFileSystemAccessDisabled)
	}
	return p.uploader.UploadFile(ctx, path)
}

func (p *Provider) resolveAudio(ctx context.Context, req transcription.Request) (string, error) {
	if req.Audio != nil {
		return p.uploader.Upload(ctx, req.Audio)
	}
	if req.Input == "" {
		if _, ok := req.Params["audio_url"]; ok {
			// submitted as-is; Submit validates it
			return "", nil
		}
	}

	in, err := ClassifyInput(req.Input)
	if err != nil {
		return "", err
	}
	if in.Kind == InputRemote {
		return in.Value, nil
	}
	return p.UploadFile(ctx, in.Value)
}

// toResponse converts a completed job. A completed job without text is a
// malformed response; empty text is a valid result for silent audio.
func toResponse(job *Transcript) (*transcription.Response, error) {
	if job.Text == nil {
		return nil, errors.MalformedResponse(serviceName, "text").WithDetail("transcript_id", job.ID)
	}

	segments := make([]transcription.Segment, 0, len(job.Utterances))
	for _, u := range job.Utterances {
		segments = append(segments, transcription.Segment{
			Start:      float64(u.Start) / 1000,
			End:        float64(u.End) / 1000,
			Text:       u.Text,
			Speaker:    u.Speaker,
			Confidence: u.Confidence,
		})
	}

	return &transcription.Response{
		ID:         job.ID,
		Status:     string(job.Status),
		Text:       *job.Text,
		Language:   job.LanguageCode,
		Duration:   job.AudioDuration,
		Confidence: job.Confidence,
		Segments:   segments,
	}, nil
}
