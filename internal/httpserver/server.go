// Package httpserver exposes the webhook and liveness endpoints.
//
// The transport stays thin: it reads the body, hands it to the pipeline and
// maps the outcome to a status code. All policy lives in the pipeline.
package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DESN131/StreamAlert/internal/pipeline"
)

// maxBodyBytes caps webhook bodies. Monitor events are well under 1 KiB;
// anything near the cap is abuse, not traffic.
const maxBodyBytes = 1 << 20

const headerRequestID = "X-Request-ID"

// NewRouter wires the webhook endpoint and the liveness probe.
func NewRouter(webhookPath string, pipe *pipeline.Pipeline, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	// Liveness only confirms the process runs; the pipeline is not involved.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST(webhookPath, handleWebhook(pipe, log))

	return r
}

// requestID tags every request so webhook deliveries can be correlated with
// pipeline log lines. Upstream-provided ids are kept.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

func handleWebhook(pipe *pipeline.Pipeline, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		res := pipe.Handle(c.Request.Context(), body)

		reqLog := log.With().
			Str("request_id", c.Writer.Header().Get(headerRequestID)).
			Str("outcome", res.Outcome.String()).
			Logger()

		switch res.Outcome {
		case pipeline.Rejected:
			reqLog.Debug().Str("reason", res.Reason).Msg("webhook rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": res.Reason})
		case pipeline.SendFailed:
			reqLog.Warn().Str("reason", res.Reason).Msg("webhook delivery failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Reason})
		default:
			// Accepted, Duplicate and Filtered all acknowledge with no body
			// so the monitor never retries suppressed events.
			c.Status(http.StatusNoContent)
		}
	}
}
