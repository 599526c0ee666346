package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/plugin"
	"github.com/kbukum/speechkit/resilience"
)

// InvokeRequest is the body of a function invocation.
type InvokeRequest struct {
	Arguments plugin.Arguments `json:"arguments"`
}

// InvokeResponse carries the textual result of a function.
type InvokeResponse struct {
	Result string `json:"result"`
}

// MountPlugins exposes plugins under /v1/plugins. Invocations share one
// bulkhead sized by Config.Bulkhead. Call it once per server.
func (s *Server) MountPlugins(plugins *plugin.Collection) {
	cfg := s.config.Bulkhead
	cfg.OnReject = func(name string, err error) {
		s.log.Warn("Invocation rejected", map[string]interface{}{
			"bulkhead": name,
			"error":    err.Error(),
		})
	}
	bulkhead := resilience.NewBulkhead(cfg)

	promauto.With(s.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "speechkit",
		Name:      "plugin_invocations_in_flight",
		Help:      "Number of plugin functions currently running",
	}, func() float64 { return float64(bulkhead.InUse()) })

	group := s.engine.Group("/v1/plugins")
	group.GET("", listPlugins(plugins))
	group.GET("/:plugin", getPlugin(plugins))
	group.POST("/:plugin/functions/:function", invokeFunction(plugins, bulkhead))
}

func listPlugins(plugins *plugin.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, plugins.List())
	}
}

func getPlugin(plugins *plugin.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := plugins.Get(c.Param("plugin"))
		if !ok {
			RespondWithError(c, errors.NotFound("plugin", c.Param("plugin")))
			return
		}
		RespondOK(c, p)
	}
}

// invokeFunction runs a plugin function inside the bulkhead. The request
// context is passed through, so a client disconnect stops any polling.
func invokeFunction(plugins *plugin.Collection, bulkhead *resilience.Bulkhead) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InvokeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
			RespondWithError(c, bodyError(err))
			return
		}

		ctx := c.Request.Context()
		result, err := resilience.ExecuteWithResult(ctx, bulkhead, func() (string, error) {
			return plugins.Invoke(ctx, c.Param("plugin"), c.Param("function"), req.Arguments)
		})
		if err != nil {
			RespondWithError(c, admissionError(err))
			return
		}
		c.JSON(http.StatusOK, InvokeResponse{Result: result})
	}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.New(errors.ErrCodeInvalidInput, "Request body is too large.", http.StatusRequestEntityTooLarge).
			WithDetail("limit", tooLarge.Limit)
	}
	return errors.InvalidInput("body", err.Error())
}

// admissionError maps bulkhead rejections; function errors pass through.
func admissionError(err error) error {
	switch {
	case stderrors.Is(err, resilience.ErrBulkheadFull), stderrors.Is(err, resilience.ErrBulkheadTimeout):
		return errors.New(errors.ErrCodeRateLimited, "Too many concurrent invocations. Please retry later.", http.StatusTooManyRequests)
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, context.Canceled):
		return errors.Canceled("invoke", err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("invoke").WithCause(err)
	}
	return err
}
