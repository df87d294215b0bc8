package common

const (
	// AccessTokenHeaderName is the gRPC metadata key carrying the session token.
	AccessTokenHeaderName = "access_token"

	// SessionCookieName is the HTTP cookie holding the session token.
	SessionCookieName = "session"

	// RequestIDHeaderName is echoed back on every HTTP response.
	RequestIDHeaderName = "X-Request-ID"
)
