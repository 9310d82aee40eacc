package log

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// HTTPMiddleware logs one line per request at debug level, or warn level
// for server errors.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, req)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		fields := []interface{}{
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"size", rec.size,
			"duration", time.Since(start),
			"remote_addr", req.RemoteAddr,
		}
		if rec.status >= http.StatusInternalServerError {
			Warnw("http request failed", fields...)
			return
		}
		Debugw("http request", fields...)
	})
}
