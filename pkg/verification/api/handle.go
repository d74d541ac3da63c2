package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-verify/pkg/emailcheck"
	"github.com/tendant/simple-verify/pkg/verification"
)

// Handler exposes the verification service over HTTP.
type Handler struct {
	service *verification.Service
}

// NewHandler creates a new verification API handler
func NewHandler(service *verification.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Routes mounts the verification endpoints. The resend and status endpoints
// require a verified JWT; validate and verify are public since the token in
// the emailed link is the credential.
func Routes(r chi.Router, h *Handler, auth *jwtauth.JWTAuth) {
	r.Post("/validate", h.ValidateEmail)
	r.Post("/verify", h.VerifyEmail)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(auth))
		r.Use(jwtauth.Authenticator(auth))
		r.Post("/resend", h.ResendVerification)
		r.Get("/status", h.GetVerificationStatus)
	})
}

// ValidateEmail handles POST /validate
func (h *Handler) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Email == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Email is required"})
		return
	}

	if req.Quick {
		plausible, reason := emailcheck.QuickCheck(req.Email)
		render.Status(r, http.StatusOK)
		render.JSON(w, r, QuickCheckResponse{Plausible: plausible, Reason: reason})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, emailcheck.Validate(req.Email))
}

// VerifyEmail handles POST /verify
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Token == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Token is required"})
		return
	}

	result := h.service.Confirm(r.Context(), req.Token)
	if !result.OK {
		status := http.StatusBadRequest
		message := "Failed to verify email"

		switch result.Category {
		case verification.CategoryInvalid:
			status = http.StatusNotFound
			message = "Invalid verification token"
		case verification.CategoryExpired:
			status = http.StatusBadRequest
			message = "Verification token has expired"
		case verification.CategoryAlreadyUsed:
			status = http.StatusConflict
			message = "Verification token has already been used"
		}

		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: message})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, VerifyEmailResponse{
		Message:    "Email verified successfully",
		SubjectId:  result.SubjectID,
		Email:      result.Email,
		VerifiedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ResendVerification handles POST /resend
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	subjectID, err := getSubjectIDFromContext(r)
	if err != nil {
		slog.Error("Failed to get subject id from context", "error", err)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result := h.service.Resend(r.Context(), subjectID)
	if !result.Sent {
		status := http.StatusBadRequest
		message := result.Reason

		switch {
		case result.Reason == verification.ErrSubjectNotFound.Error():
			status = http.StatusNotFound
		case strings.Contains(result.Reason, "too many"):
			status = http.StatusTooManyRequests
		}

		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: message})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ResendVerificationResponse{
		Message: "Verification email sent successfully",
	})
}

// GetVerificationStatus handles GET /status
func (h *Handler) GetVerificationStatus(w http.ResponseWriter, r *http.Request) {
	subjectID, err := getSubjectIDFromContext(r)
	if err != nil {
		slog.Error("Failed to get subject id from context", "error", err)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	verified, verifiedAt, err := h.service.Status(r.Context(), subjectID)
	if err != nil {
		status := http.StatusNotFound
		message := "Subject not found"

		if !errors.Is(err, verification.ErrSubjectNotFound) {
			slog.Error("Failed to get verification status", "error", err)
			status = http.StatusInternalServerError
			message = "An error occurred while retrieving verification status"
		}

		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: message})
		return
	}

	response := VerificationStatusResponse{
		EmailVerified: verified,
	}
	if verifiedAt != nil {
		verifiedAtStr := verifiedAt.Format(time.RFC3339)
		response.VerifiedAt = &verifiedAtStr
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

// getSubjectIDFromContext extracts the subject id from the verified JWT in
// the request context (set by the jwtauth middleware).
func getSubjectIDFromContext(r *http.Request) (int64, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0, errors.New("sub claim not found in JWT")
	}

	subjectID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("invalid sub claim in JWT")
	}

	return subjectID, nil
}
