package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions returns the security header set for the authorization API.
// The service serves JSON only, so the CSP can stay at a bare default-src.
func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	}
}

// NewSecure returns a middleware that adds security headers. Applied before
// the pipeline so denial responses carry the headers too.
func NewSecure(opts secure.Options) func(next http.Handler) http.Handler {
	s := secure.New(opts)
	return s.Handler
}
