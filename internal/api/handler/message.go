package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jmhart/chatroom-go/internal/api/apierr"
	"github.com/jmhart/chatroom-go/internal/api/middleware"
	"github.com/jmhart/chatroom-go/internal/api/request"
	"github.com/jmhart/chatroom-go/internal/api/response"
	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/services/chat"
)

// MessageHandler handles message history and mutations
type MessageHandler struct {
	chatService *chat.Service
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(chatService *chat.Service) *MessageHandler {
	return &MessageHandler{
		chatService: chatService,
	}
}

// List handles GET /api/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.History(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessagesFromModel(messages))
}

// Create handles POST /api/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	caller := middleware.MustGetIdentity(r.Context())

	msg, err := h.chatService.Create(r.Context(), caller, req.Content)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageFromModel(msg))
}

// Update handles PUT /api/messages/{id}
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	caller := middleware.MustGetIdentity(r.Context())

	msg, err := h.chatService.Update(r.Context(), caller, id, req.Content)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageFromModel(msg))
}

// Delete handles DELETE /api/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	caller := middleware.MustGetIdentity(r.Context())

	if err := h.chatService.Delete(r.Context(), caller, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeleteResponse{ID: int64(id)})
}

// messageID parses the message ID path variable
func messageID(r *http.Request) (model.MessageID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierr.NewInvalidRequestError("invalid message id")
	}
	return model.MessageID(id), nil
}
