package handler

import (
	"log/slog"
	"net/http"

	"bistro/internal/delivery/api/response"
	"bistro/internal/domain/entity"
	"bistro/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	Logger    *slog.Logger
}

// SessionHandler holds dependencies for session-related handlers.
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{
		sessionUC: params.SessionUC,
		logger:    params.Logger,
	}
}

// SignInRequest represents the request body for signing in
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionView is the public view of the session. Tokens never leave the process.
type SessionView struct {
	SignedIn bool         `json:"signed_in"`
	User     *entity.User `json:"user"`
}

// SignUpResult tells the caller whether the account still needs an email confirmation.
type SignUpResult struct {
	User                 *entity.User `json:"user"`
	ConfirmationRequired bool         `json:"confirmation_required"`
}

// GetSession returns the signed-in user, if any
func (h *SessionHandler) GetSession(c echo.Context) error {
	user := h.sessionUC.CurrentUser()

	return response.Success(c, http.StatusOK, SessionView{SignedIn: user != nil, User: user})
}

// SignIn exchanges credentials for a session
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-in input")
	}

	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.sessionUC.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, SessionView{SignedIn: true, User: user})
}

// SignUp registers an account
func (h *SessionHandler) SignUp(c echo.Context) error {
	var input usecase.SignUpInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-up input")
	}

	user, err := h.sessionUC.SignUp(c.Request().Context(), &input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, SignUpResult{User: user, ConfirmationRequired: user == nil})
}

// SignOut ends the session
func (h *SessionHandler) SignOut(c echo.Context) error {
	if err := h.sessionUC.SignOut(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, SessionView{})
}

// UpdateProfile edits the account metadata of the signed-in user
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	user, err := h.sessionUC.UpdateProfile(c.Request().Context(), &input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}
