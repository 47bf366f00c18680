package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	openaiapi "github.com/sashabaranov/go-openai"

	"github.com/quickcart/concierge/internal/infrastructure/exchange"
	"github.com/quickcart/concierge/internal/infrastructure/openai"
	"github.com/quickcart/concierge/internal/services/chat"
	"github.com/quickcart/concierge/internal/services/tools"
	"github.com/quickcart/concierge/pkg/httpext"
)

// ChatRequest is the inbound body of POST /chat.
type ChatRequest struct {
	Query string `json:"query" validate:"required"`
}

// ChatResponse carries the synthesized answer back to the caller.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// HandleChat handles one conversational turn: free-text query in,
// natural-language answer out.
func HandleChat(chatService *chat.Service, w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	log.Info().Str("client_ip", r.RemoteAddr).Msg("Received chat request")

	answer, err := chatService.Answer(r.Context(), req.Query)
	if err != nil {
		log.Error().Err(err).Str("query", req.Query).Msg("Failed to handle chat turn")
		httpext.JsonErrorWithDetails(w, statusFor(err), httpext.ErrorResponse{
			Error:   "Failed to process chat",
			Details: err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{Answer: answer}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		httpext.JsonError(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleChatProbe verifies end-to-end connectivity to the completion API and
// returns the model's reply.
func HandleChatProbe(gateway *openai.Service, w http.ResponseWriter, r *http.Request) {
	reply, err := gateway.Ping(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Completion API probe failed")
		httpext.JsonError(w, "Completion API unreachable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{Answer: reply}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// statusFor maps the turn's error kind to an HTTP status code.
func statusFor(err error) int {
	var apiErr *openaiapi.APIError

	switch {
	case errors.Is(err, tools.ErrBadArguments), errors.Is(err, exchange.ErrInvalidCurrency):
		return http.StatusBadRequest
	case errors.Is(err, exchange.ErrServiceUnavailable), errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
