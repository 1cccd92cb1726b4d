package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bodyRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "http_request_body_rejected_total",
	Help: "Requests rejected because the declared body exceeded the limit",
})

// bodyless methods never carry a payload the handlers read
var bodyless = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// RequestSizeLimitMiddleware caps request bodies at limit bytes.
// A declared Content-Length above the limit is refused up front, streamed bodies
// are cut by http.MaxBytesReader and surface as a decode error in the handler.
func RequestSizeLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bodyless[r.Method] || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				bodyRejectedTotal.Inc()
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
