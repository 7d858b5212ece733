package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/security"
)

// SecurityHeaders applies the header policy to every response, after the
// rest of the chain has run and regardless of status. Values set by
// downstream handlers for the same keys are replaced.
func SecurityHeaders(policy *security.HeaderPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		secure := security.IsSecureRequest(c.Request)
		w := &headerHookWriter{
			ResponseWriter: c.Writer,
			before: func(h http.Header) {
				policy.Apply(h, secure)
			},
		}
		c.Writer = w

		c.Next()

		// nothing was written yet; gin flushes the status after the chain
		w.apply()
		c.Writer = w.ResponseWriter
	}
}

// headerHookWriter runs before exactly once, right before the response
// header is committed.
type headerHookWriter struct {
	gin.ResponseWriter
	before  func(http.Header)
	applied bool
}

func (w *headerHookWriter) apply() {
	if w.applied || w.ResponseWriter.Written() {
		return
	}
	w.applied = true
	w.before(w.ResponseWriter.Header())
}

func (w *headerHookWriter) WriteHeaderNow() {
	w.apply()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerHookWriter) Write(data []byte) (int, error) {
	w.apply()
	return w.ResponseWriter.Write(data)
}

func (w *headerHookWriter) WriteString(s string) (int, error) {
	w.apply()
	return w.ResponseWriter.WriteString(s)
}

func (w *headerHookWriter) Flush() {
	w.apply()
	w.ResponseWriter.Flush()
}
