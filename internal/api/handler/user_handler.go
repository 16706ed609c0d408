package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type UserHandler struct {
	userService  ports.UserService
	entryService ports.EntryService
}

func NewUserHandler(userService ports.UserService, entryService ports.EntryService) *UserHandler {
	return &UserHandler{userService: userService, entryService: entryService}
}

type updateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	Biography   *string `json:"biography"`
	OldPassword string  `json:"oldPassword"`
	Password    string  `json:"password"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user junior-author admin super-admin"`
}

// Get returns a user's public profile.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  envelope
// @Failure      404       {object}  errorResponse
// @Router       /v1/user/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Votes returns a page of the user's vote history in one direction.
//
// @Summary      List a user's votes
// @Tags         users
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        voteType  query     string  false  "up (default) or down"
// @Param        skip      query     int     false  "Offset"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  envelope
// @Router       /v1/user/{username}/votes [get]
func (h *UserHandler) Votes(c echo.Context) error {
	direction := domain.VoteDirection(c.QueryParam("voteType"))
	if !direction.IsValid() {
		direction = domain.VoteUp
	}

	skip, limit := pageParams(c)
	result, err := h.entryService.VotesOfUser(c.Request().Context(), c.Param("username"), direction, skip, limit)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, result.Votes, result.Count)
}

// UpdateProfile edits the caller's own profile. Changing the password
// requires the current one.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string                true  "Username (must be the caller)"
// @Param        body      body      updateProfileRequest  true  "Fields to change"
// @Success      200       {object}  envelope
// @Failure      403       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /v1/user/{username} [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor, c.Param("username"), ports.UpdateProfileInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Biography:   req.Biography,
		OldPassword: req.OldPassword,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// UploadPicture replaces the caller's profile picture. The request body
// is the raw image and the Content-Type header names its format.
//
// @Summary      Upload a profile picture
// @Tags         users
// @Accept       png
// @Produce      json
// @Security     BearerAuth
// @Param        file  body      string  true  "Raw image bytes"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Router       /v1/user/pp [put]
func (h *UserHandler) UploadPicture(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	req := c.Request()
	err = h.userService.SetProfilePicture(req.Context(), actor, req.Header.Get(echo.HeaderContentType), req.ContentLength, req.Body)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "profile picture updated"})
}

// Picture streams a user's profile picture.
//
// @Summary      Get a profile picture
// @Tags         users
// @Produce      octet-stream
// @Param        username  path  string  true  "Username"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /v1/user/{username}/pp [get]
func (h *UserHandler) Picture(c echo.Context) error {
	picture, contentType, err := h.userService.ProfilePicture(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	defer picture.Close()

	return c.Stream(http.StatusOK, contentType, picture)
}

// SetRole changes a user's role.
//
// @Summary      Set a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string          true  "Username"
// @Param        body      body      setRoleRequest  true  "New role"
// @Success      200       {object}  envelope
// @Failure      404       {object}  errorResponse
// @Router       /v1/user/{username}/role [patch]
func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.SetRole(c.Request().Context(), c.Param("username"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}
