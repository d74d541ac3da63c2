package api

// ValidateRequest is the request body for POST /validate
type ValidateRequest struct {
	Email string `json:"email"`
	Quick bool   `json:"quick,omitempty"`
}

// QuickCheckResponse is the response body for POST /validate with quick=true
type QuickCheckResponse struct {
	Plausible bool   `json:"plausible"`
	Reason    string `json:"reason,omitempty"`
}

// VerifyEmailRequest is the request body for POST /verify
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// VerifyEmailResponse is the response body for a successful POST /verify
type VerifyEmailResponse struct {
	Message    string `json:"message"`
	SubjectId  int64  `json:"subject_id"`
	Email      string `json:"email"`
	VerifiedAt string `json:"verified_at"`
}

// ResendVerificationResponse is the response body for POST /resend
type ResendVerificationResponse struct {
	Message string `json:"message"`
}

// VerificationStatusResponse is the response body for GET /status
type VerificationStatusResponse struct {
	EmailVerified bool    `json:"email_verified"`
	VerifiedAt    *string `json:"verified_at,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}
