package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/api/metrics"
	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type EntryHandler struct {
	entryService ports.EntryService
}

func NewEntryHandler(entryService ports.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

type createEntryRequest struct {
	TitleID string `json:"titleId" validate:"required"`
	Text    string `json:"text" validate:"required,min=1,max=5000"`
}

type updateEntryRequest struct {
	Text string `json:"text" validate:"required,min=1,max=5000"`
}

// Create posts a new entry under a title.
//
// @Summary      Create an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEntryRequest  true  "Entry details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/entry/create-entry [post]
func (h *EntryHandler) Create(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.entryService.CreateEntry(c.Request().Context(), username, ports.CreateEntryInput{
		TitleID: req.TitleID,
		Text:    req.Text,
	})
	if err != nil {
		return err
	}

	metrics.EntriesCreatedTotal.Inc()
	return respond(c, http.StatusCreated, entry)
}

// Get returns a single entry.
//
// @Summary      Get an entry
// @Tags         entries
// @Produce      json
// @Param        entryId  path      string  true  "Entry id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/entry/{entryId} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	entry, err := h.entryService.GetEntry(c.Request().Context(), c.Param("entryId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, entry)
}

// Update edits the entry text; only the author may edit.
//
// @Summary      Update an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        entryId  path      string              true  "Entry id"
// @Param        body     body      updateEntryRequest  true  "New text"
// @Success      200      {object}  envelope
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/entry/{entryId} [patch]
func (h *EntryHandler) Update(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.entryService.UpdateEntry(c.Request().Context(), username, c.Param("entryId"), req.Text)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, entry)
}

// Delete removes an entry; allowed for the author or an admin.
//
// @Summary      Delete an entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        entryId  path      string  true  "Entry id"
// @Success      200      {object}  envelope
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/entry/{entryId} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	username, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.entryService.DeleteEntry(c.Request().Context(), username, role, c.Param("entryId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "entry deleted"})
}

// ListByTitle returns a page of a title's entries, oldest first.
//
// @Summary      List entries under a title
// @Tags         entries
// @Produce      json
// @Param        titleId  path      string  true   "Title id"
// @Param        skip     query     int     false  "Offset"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/entry/by-title/{titleId}/all [get]
func (h *EntryHandler) ListByTitle(c echo.Context) error {
	skip, limit := pageParams(c)
	result, err := h.entryService.ListByTitle(c.Request().Context(), c.Param("titleId"), skip, limit)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, result.Entries, result.Count)
}

// Featured returns the title's highest-net-voted entry.
//
// @Summary      Get a title's featured entry
// @Tags         entries
// @Produce      json
// @Param        titleId  path      string  true  "Title id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/entry/by-title/{titleId}/featured [get]
func (h *EntryHandler) Featured(c echo.Context) error {
	entry, err := h.entryService.FeaturedByTitle(c.Request().Context(), c.Param("titleId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, entry)
}

// ListByAuthor returns a page of a user's entries, newest first.
//
// @Summary      List entries by author
// @Tags         entries
// @Produce      json
// @Param        username  path      string  true   "Author username"
// @Param        skip      query     int     false  "Offset"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  envelope
// @Router       /v1/entry/by-author/{username}/all [get]
func (h *EntryHandler) ListByAuthor(c echo.Context) error {
	skip, limit := pageParams(c)
	result, err := h.entryService.ListByAuthor(c.Request().Context(), c.Param("username"), skip, limit)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, result.Entries, result.Count)
}

// UpVote casts an up vote on the entry for the caller.
//
// @Summary      Up-vote an entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        entryId  path      string  true  "Entry id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /v1/entry/up-vote/{entryId} [patch]
func (h *EntryHandler) UpVote(c echo.Context) error {
	return h.vote(c, domain.VoteUp)
}

// DownVote casts a down vote on the entry for the caller.
//
// @Summary      Down-vote an entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        entryId  path      string  true  "Entry id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /v1/entry/down-vote/{entryId} [patch]
func (h *EntryHandler) DownVote(c echo.Context) error {
	return h.vote(c, domain.VoteDown)
}

func (h *EntryHandler) vote(c echo.Context, direction domain.VoteDirection) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.entryService.Vote(c.Request().Context(), c.Param("entryId"), username, direction); err != nil {
		return err
	}

	metrics.VotesCastTotal.WithLabelValues(string(direction)).Inc()
	return respond(c, http.StatusOK, messageResponse{Message: "vote recorded"})
}

// UndoVote withdraws the caller's vote. The isUpVoted query param is the
// client's view of the stored direction; a mismatch is rejected with 409.
//
// @Summary      Undo a vote on an entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        entryId    path      string  true  "Entry id"
// @Param        isUpVoted  query     bool    true  "Claimed stored direction"
// @Success      200        {object}  envelope
// @Failure      400        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /v1/entry/undo-vote/{entryId} [patch]
func (h *EntryHandler) UndoVote(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	claimedUp, err := strconv.ParseBool(c.QueryParam("isUpVoted"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "isUpVoted must be true or false")
	}

	if err := h.entryService.UndoVote(c.Request().Context(), c.Param("entryId"), username, claimedUp); err != nil {
		return err
	}

	metrics.VotesUndoneTotal.Inc()
	return respond(c, http.StatusOK, messageResponse{Message: "vote undone"})
}
