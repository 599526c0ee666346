// Package httpclient is the HTTP adapter used by speech providers.
//
// An Adapter joins request paths onto a base URL, applies a User-Agent,
// default headers and authentication, and classifies every failure into
// an *Error: transport failures (timeout, connection, canceled), non-2xx
// statuses (auth, not_found, rate_limit, validation, server) and success
// bodies that are not the expected JSON (decode). Non-2xx response bodies
// are kept on the error so callers can surface them.
//
// Retry is opt-in and only ever applies to idempotent requests without a
// streamed body, so uploads and job submissions are sent exactly once.
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL:   "https://api.assemblyai.com",
//	    UserAgent: version.UserAgent(),
//	    Auth:      httpclient.APIKeyAuthHeader(key, "Authorization"),
//	    Retry:     httpclient.DefaultRetryConfig(3),
//	})
//
//	resp, err := httpclient.Get[Transcript](ctx, a, "/v2/transcript/"+id)
package httpclient
