package constant

// RefreshCookieName is the HTTP-only cookie carrying the signed refresh token.
const RefreshCookieName = "cke"

// RefreshCookiePath scopes the cookie to the refresh endpoint only.
const RefreshCookiePath = "/api/refresh"

// Action token purposes.
const (
	PurposeVerify  = "verify"
	PurposeRecover = "recover"
)

// MinimumSignupAge is the youngest age (in years) allowed to sign up.
const MinimumSignupAge = 13

// Fiber locals keys set by the auth middleware.
const (
	LocalsUserID    = "userID"
	LocalsSessionID = "sessionID"
)
