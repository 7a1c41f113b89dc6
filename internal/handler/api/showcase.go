package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"showcase-service/internal/domain/showcase"
	reqdto "showcase-service/internal/handler/dto/request"
	resdto "showcase-service/internal/handler/dto/response"
	"showcase-service/internal/handler/httperr"
	"showcase-service/internal/usecase/commands"
	"showcase-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShowcaseHandler struct {
	cmds commands.ShowcaseCommands
	q    queries.ShowcaseQueries
}

func NewShowcaseHandler(cmds commands.ShowcaseCommands, q queries.ShowcaseQueries) *ShowcaseHandler {
	return &ShowcaseHandler{cmds: cmds, q: q}
}

// Schedule accepts the command; the read model catches up asynchronously,
// so a successful response carries no body.
func (h *ShowcaseHandler) Schedule(c *gin.Context) {
	var req reqdto.ScheduleShowcaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", "Invalid request body", nil)
		return
	}
	if err := h.cmds.Schedule(c.Request.Context(), req.ToCommand()); err != nil {
		abortCommandError(c, err, "Schedule failed")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ShowcaseHandler) Start(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", "Invalid id", nil)
		return
	}
	if err := h.cmds.Start(c.Request.Context(), id); err != nil {
		abortCommandError(c, err, "Start failed")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ShowcaseHandler) Finish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", "Invalid id", nil)
		return
	}
	if err := h.cmds.Finish(c.Request.Context(), id); err != nil {
		abortCommandError(c, err, "Finish failed")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ShowcaseHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", "Invalid id", nil)
		return
	}
	if err := h.cmds.Remove(c.Request.Context(), id); err != nil {
		abortCommandError(c, err, "Remove failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShowcaseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrShowcaseNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "NOT_FOUND", "Showcase not found", nil)
			return
		}
		slog.Error("get showcase failed", "error", err, "showcase_id", id)
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "INTERNAL", "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromShowcaseView(view))
}

func (h *ShowcaseHandler) List(c *gin.Context) {
	filters := queries.ShowcaseFilters{
		TitleContains: strings.TrimSpace(c.Query("q")),
	}
	for _, raw := range c.QueryArray("status") {
		s := showcase.Status(strings.ToUpper(strings.TrimSpace(raw)))
		if !s.IsValid() {
			httperr.AbortWithError(c, http.StatusBadRequest, errors.New("unknown status"), "INVALID_COMMAND", "Unknown status filter", gin.H{"status": raw})
			return
		}
		filters.Statuses = append(filters.Statuses, s)
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.List(c.Request.Context(), filters, cursor, limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", "Invalid cursor", nil)
			return
		}
		slog.Error("list showcases failed", "error", err)
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "INTERNAL", "Internal error", nil)
		return
	}
	resp := gin.H{"showcases": resdto.FromShowcaseList(items)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

func abortCommandError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, commands.ErrInvalidCommand):
		var ve showcase.ValidationError
		var detail any
		if errors.As(err, &ve) {
			detail = ve.Fields
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_COMMAND", msg, detail)
	case errors.Is(err, commands.ErrShowcaseNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "NOT_FOUND", "Showcase not found", nil)
	case errors.Is(err, commands.ErrTitleInUse):
		httperr.AbortWithError(c, http.StatusConflict, err, "TITLE_IN_USE", "Title already reserved", nil)
	case errors.Is(err, commands.ErrIllegalState):
		httperr.AbortWithError(c, http.StatusConflict, err, "ILLEGAL_STATE", msg, nil)
	case errors.Is(err, commands.ErrConcurrencyConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "CONFLICT", "Concurrent modification, retry", nil)
	default:
		slog.Error("showcase command failed", "error", err, "path", c.Request.URL.Path)
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "INTERNAL", "Internal error", nil)
	}
}
