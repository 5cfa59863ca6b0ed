package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/medikart/pharmacy-storefront/internal/api/middleware"
	"github.com/medikart/pharmacy-storefront/internal/metrics"
	"github.com/medikart/pharmacy-storefront/internal/models"
	service "github.com/medikart/pharmacy-storefront/internal/services"
	"github.com/medikart/pharmacy-storefront/internal/utils"
	"github.com/medikart/pharmacy-storefront/internal/utils/response"
)

type ChatHandler struct {
	chatService *service.ChatService
	validator   *validator.Validate
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService, validator: validator.New()}
}

// Chat is the widget's single endpoint. "open" and "endChat" arrive as
// actions; everything else is a user message routed through the state
// machine.
func (h *ChatHandler) Chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.ChatRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.WriteJson(w, http.StatusBadRequest, response.APIResponse{
				Success: false,
				Error:   &response.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()},
			})

			return
		}

		switch req.Action {
		case "open":
			sessionID, messages := h.chatService.Open(req.SessionID)
			response.Success(w, http.StatusOK, map[string]any{
				"session_id": sessionID,
				"messages":   messages,
			})

			return

		case models.ChatActionConnectPharmacist:
			resp, err := h.chatService.ConnectPharmacist(req.SessionID)
			if err != nil {
				response.Error(w, err)

				return
			}

			metrics.ObserveChatHandoff()
			response.Success(w, http.StatusOK, resp)

			return

		case "endChat":
			resp, err := h.chatService.EndPharmacistChat(req.SessionID)
			if err != nil {
				response.Error(w, err)

				return
			}

			response.Success(w, http.StatusOK, resp)

			return

		case "close":
			if err := h.chatService.Close(req.SessionID); err != nil {
				response.Error(w, err)

				return
			}

			response.Success(w, http.StatusOK, map[string]string{"status": "closed"})

			return
		}

		if err := h.validator.Struct(req); err != nil {

			if validationErrs, ok := err.(validator.ValidationErrors); ok {
				response.ValidationError(w, utils.ValidationMessages(validationErrs))
			} else {
				response.Error(w, err)
			}

			return
		}

		resp, err := h.chatService.Send(r.Context(), req.SessionID, req.Message)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Chat message failed",
				"sessionId", req.SessionID,
				"error", err.Error(),
			)
			response.Error(w, err)

			return
		}

		if resp.Action == models.ChatActionPharmacistConnected {
			metrics.ObserveChatHandoff()
		}

		response.Success(w, http.StatusOK, resp)

	}
}

// History returns the full message list of a session for widget re-open.
func (h *ChatHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID := r.PathValue("id")

		messages, err := h.chatService.Messages(sessionID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, messages)

	}
}
