package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dkeye/Collab/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Inbox is the read side of the notification record.
type Inbox interface {
	List(ctx context.Context, recipient domain.UserID, unreadOnly bool, limit int) ([]domain.NotificationView, error)
	MarkRead(ctx context.Context, recipient domain.UserID, id string) (domain.NotificationView, error)
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingCredential), errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotProjectMember), errors.Is(err, domain.ErrNotMessageSender):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrContentTooLong),
		errors.Is(err, domain.ErrInvalidNotification), errors.Is(err, domain.ErrBadPayload):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	}
	text := domain.PublicMessage(err)
	if errors.Is(err, domain.ErrEmptyContent) {
		text = "Message is empty"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": text})
}

func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": len(h.orch.Registry.List())})
}

func (h *handlers) rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Registry.List()})
}

func (h *handlers) online(c *gin.Context) {
	room := domain.RoomID(c.Param("id"))
	roster, err := h.orch.Roster(c.Request.Context(), currentUser(c).ID, room)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projectId": room, "users": roster})
}

func (h *handlers) history(c *gin.Context) {
	room := domain.RoomID(c.Param("id"))
	msgs, next, err := h.orch.History(c.Request.Context(), currentUser(c).ID, room, c.Query("before"), queryLimit(c))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projectId": room, "messages": msgs, "nextCursor": next})
}

func (h *handlers) editMessage(c *gin.Context) {
	var body editMessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWith(c, domain.ErrBadPayload)
		return
	}
	view, err := h.orch.EditMessage(c.Request.Context(), currentUser(c), c.Param("id"), body.Content)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) deleteMessage(c *gin.Context) {
	if err := h.orch.DeleteMessage(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listNotifications(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	list, err := h.inbox.List(c.Request.Context(), currentUser(c).ID, unread, queryLimit(c))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *handlers) markRead(c *gin.Context) {
	view, err := h.inbox.MarkRead(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// dispatch lets out-of-process producers use the notification port.
func (h *handlers) dispatch(c *gin.Context) {
	var evt domain.NotificationEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		abortWith(c, domain.ErrBadPayload)
		return
	}
	n, err := h.notifier.Dispatch(c.Request.Context(), evt)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}
