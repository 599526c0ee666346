package middleware

import (
	"net/http"

	"github.com/kbukum/speechkit/util"
)

const defaultMaxBodySize = 1 << 20 // 1MB

// BodySizeLimit restricts the request body to the given size string
// (e.g. "1MB", "512KB").
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
