package handler

import (
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/auth"
	"enddit/backend/internal/hub"
	"enddit/backend/internal/models"
	"enddit/backend/internal/repository"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	msgInvalidFriendID = "Invalid friend id"

	streamBuffer      = 16
	heartbeatInterval = 30 * time.Second
)

// SendMessageInput defines the structure for a chat message.
type SendMessageInput struct {
	Content string `json:"content" example:"hey!"`
}

// GetMessages godoc
// @Summary      Get conversation
// @Description  Lists the messages exchanged with a user in both directions, oldest first.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        friendId  path  string  true  "Other user ID (uuid)"
// @Success      200  {array}   models.Message
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chat/{friendId}/messages [get]
func (h *Handler) GetMessages(c *gin.Context, caller *auth.Caller) error {
	friendID, err := uuidParam(c, "friendId", msgInvalidFriendID)
	if err != nil {
		return err
	}

	messages, err := h.Messages.Conversation(c.Request.Context(), caller.ID(), friendID)
	if err != nil {
		return apperr.Internal("", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}

	c.JSON(http.StatusOK, messages)
	return nil
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Stores a message and pushes it to the live streams of both users.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        friendId  path  string            true  "Receiver user ID (uuid)"
// @Param        input     body  SendMessageInput  true  "Message"
// @Success      201  {object}  models.Message
// @Failure      400  {object}  ErrorResponse "Message content is required"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /chat/{friendId}/messages [post]
func (h *Handler) SendMessage(c *gin.Context, caller *auth.Caller) error {
	friendID, err := uuidParam(c, "friendId", msgInvalidFriendID)
	if err != nil {
		return err
	}

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		return apperr.BadRequest("Message content is required")
	}

	message := models.Message{
		SenderID:   caller.ID(),
		ReceiverID: friendID,
		Content:    input.Content,
	}
	if err := h.Messages.Send(c.Request.Context(), &message); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return apperr.Internal("", err)
	}

	if err := h.Hub.Publish(eventFor(message), message.ReceiverID, message.SenderID); err != nil {
		h.Logger.Warnw("Failed to publish chat message", "message_id", message.ID, "error", err)
	}

	c.JSON(http.StatusCreated, message)
	return nil
}

func eventFor(message models.Message) hub.Event {
	return hub.Event{Type: hub.EventMessage, Payload: message}
}

// StreamMessages godoc
// @Summary      Live chat stream
// @Description  Server-Sent Events stream of messages sent to or by the caller.
// @Tags         chat
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "event stream"
// @Failure      401  {object}  ErrorResponse
// @Router       /chat/stream [get]
func (h *Handler) StreamMessages(c *gin.Context, caller *auth.Caller) error {
	ctx := c.Request.Context()
	userID := caller.ID()

	client := make(hub.Client, streamBuffer)
	h.Hub.Subscribe(userID, client)
	defer h.Hub.Unsubscribe(userID, client)

	if h.Metrics != nil {
		h.Metrics.StreamOpened(ctx)
		defer h.Metrics.StreamClosed(ctx)
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.SSEvent("connected", gin.H{"userId": userID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Logger.Debugw("Chat stream closed", "user_id", userID)
			return nil
		case <-heartbeat.C:
			c.SSEvent("heartbeat", gin.H{"timestamp": time.Now().Unix()})
		case msg, ok := <-client:
			if !ok {
				return nil
			}
			c.SSEvent(hub.EventMessage, string(msg))
		}
		c.Writer.Flush()
	}
}
