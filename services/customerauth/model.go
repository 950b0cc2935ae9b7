package customerauth

import "time"

const (
	stateCookieName     = "oauth_state"
	verifierCookieName  = "oauth_code_verifier"
	nonceCookieName     = "oauth_nonce"
	emailHintCookieName = "login_email_hint"
	sessionCookieName   = "customerAccessToken"

	defaultReturnURL = "/account"
	loginPagePath    = "/login"
)

// Reasons reported back to the login page via the error query param.
const (
	reasonMissingParameters = "missing_parameters"
	reasonInvalidState      = "invalid_state"
	reasonMissingVerifier   = "missing_verifier"
	reasonInvalidNonce      = "invalid_nonce"
)

// FlowAttempt is the audit record of a single authorization attempt.
// Flow secrets themselves live in cookies on the customer's browser; we
// only keep a hash of the verifier to correlate a callback with a start.
type FlowAttempt struct {
	UID           string
	CreatedAt     time.Time
	LastModified  *time.Time
	ReturnURL     string
	VerifierHash  string
	Done          bool
	Success       bool
	FailureReason string
}
