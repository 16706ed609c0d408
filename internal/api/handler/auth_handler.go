package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/api/metrics"
	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=80"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type recoveryRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// SignUp registers a new account and queues the verification mail.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	return respond(c, http.StatusCreated, user)
}

// SignIn authenticates by username or email and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials; username also accepts the account email"
// @Success      200   {object}  envelope
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.ValidateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	result, err := h.authService.SignIn(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}

// SignOut revokes the caller's token for the remainder of its lifetime.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /v1/auth/signout [get]
func (h *AuthHandler) SignOut(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if err := h.authService.SignOut(c.Request().Context(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "signed out"})
}

// CheckToken confirms the caller's token is valid and unrevoked. The Auth
// middleware has already done the work; reaching the handler is the proof.
//
// @Summary      Check token validity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/check-token [get]
func (h *AuthHandler) CheckToken(c echo.Context) error {
	username, role, err := ctxActor(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{
		"username": username,
		"role":     string(role),
	})
}

// Me returns the caller's own profile.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// AccountRecovery drives both phases of password recovery: a request with
// only an email queues the recovery mail; a request with a token and new
// password completes the reset.
//
// @Summary      Request or complete password recovery
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      recoveryRequest  true  "Email to start, token and newPassword to finish"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/signin/account-recovery [put]
func (h *AuthHandler) AccountRecovery(c echo.Context) error {
	var req recoveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" && req.Token == "" {
		return domain.ErrValidation
	}

	err := h.authService.AccountRecovery(c.Request().Context(), ports.RecoveryInput{
		Email:       req.Email,
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "ok"})
}

// AccountVerification redeems the emailed verification token.
//
// @Summary      Verify an account
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  envelope
// @Failure      400    {object}  errorResponse
// @Router       /v1/auth/account-verification [get]
func (h *AuthHandler) AccountVerification(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return domain.ErrValidation
	}
	if err := h.authService.AccountVerification(c.Request().Context(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "account verified"})
}
