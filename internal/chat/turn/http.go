// internal/chat/turn/http.go
package turn

import (
	"encoding/json"
	"errors"
	"net/http"

	"lead-intelligence/internal/common/logger"

	"github.com/gorilla/mux"
)

const maxRequestBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RegisterRoutes mounts the chat endpoint on r.
func RegisterRoutes(r *mux.Router, p *Processor, log logger.Logger) {
	h := &httpHandler{processor: p, logger: log.WithFields(map[string]interface{}{"component": "chat-api"})}
	r.HandleFunc("/api/chat", h.handleChat).Methods(http.MethodPost)
}

type httpHandler struct {
	processor *Processor
	logger    logger.Logger
}

func (h *httpHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "INPUT_PARSING_FAILED", Message: "request body must be a chat turn"})
		return
	}

	resp, err := h.processor.Process(r.Context(), req)
	if errors.Is(err, ErrEmptyMessage) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "VALIDATION_FAILED", Message: "message is required"})
		return
	}
	if err != nil {
		h.logger.Error("chat turn failed", map[string]interface{}{"sessionId": req.SessionID, "error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "INTERNAL_ERROR",
			Message: "Sorry, something went wrong on our side. Please try again.",
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
