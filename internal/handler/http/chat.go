package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/zenithretail/storefront/pkg/errors"
	"github.com/zenithretail/storefront/pkg/httputil"
	"github.com/zenithretail/storefront/pkg/validator"

	"github.com/zenithretail/storefront/internal/chat"
)

// ChatHandler handles HTTP requests for the scripted support assistant.
type ChatHandler struct {
	responder *chat.Responder
	logger    *slog.Logger
}

// NewChatHandler creates a new chat HTTP handler.
func NewChatHandler(responder *chat.Responder, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		responder: responder,
		logger:    logger,
	}
}

// MessageRequest is the JSON request body for a chat message.
type MessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

// MessageResponse is the assistant's reply.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// Message handles POST /api/v1/chat
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, MessageResponse{
		Reply: h.responder.Reply(req.Message),
	})
}
