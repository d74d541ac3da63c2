package signup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-verify/pkg/account"
)

// RegisterRequest is the request body for POST /register
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResponse is the response body for a successful registration
type RegisterResponse struct {
	SubjectId int64  `json:"subject_id"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

type Handle struct {
	service             *Service
	registrationEnabled bool
}

type Option func(*Handle)

func NewHandle(service *Service, opts ...Option) *Handle {
	h := &Handle{
		service:             service,
		registrationEnabled: true,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func WithRegistrationEnabled(enabled bool) Option {
	return func(h *Handle) {
		h.registrationEnabled = enabled
	}
}

// Routes mounts the signup endpoints.
func Routes(r chi.Router, h *Handle) {
	r.Post("/register", h.RegisterSubject)
}

// RegisterSubject handles POST /register
func (h *Handle) RegisterSubject(w http.ResponseWriter, r *http.Request) {
	if !h.registrationEnabled {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, ErrorResponse{Error: "Registration is disabled"})
		return
	}

	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Please check your registration information and try again"})
		return
	}

	if request.Email == "" || request.Password == "" || request.Name == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Name, email, and password are required"})
		return
	}

	var params RegisterParams
	if err := copier.Copy(&params, &request); err != nil {
		slog.Error("Failed to map registration request", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "Failed to register"})
		return
	}

	subject, err := h.service.RegisterSubject(r.Context(), params)
	if err != nil {
		var validationErr ValidationError
		if errors.As(err, &validationErr) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{
				Error:      validationErr.Reason,
				Suggestion: validationErr.Suggestion,
			})
			return
		}

		if errors.Is(err, account.ErrEmailTaken) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, ErrorResponse{Error: "An account with this email already exists"})
			return
		}

		slog.Error("Failed to register subject", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "Failed to register"})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RegisterResponse{
		SubjectId: subject.ID,
		Email:     subject.Email,
		Message:   "Registration successful, please check your email to verify your address",
	})
}
