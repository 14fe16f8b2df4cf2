// internal/workers/chat/process-chat-turn/models.go
package processchatturn

import (
	"lead-intelligence/internal/chat/turn"
	"lead-intelligence/internal/chat/usercontext"
	"lead-intelligence/internal/models"
)

type Input struct {
	Message             string               `json:"message"`
	SessionID           string               `json:"sessionId,omitempty"`
	UserContext         string               `json:"userContext,omitempty"`
	ConversationHistory []models.ChatMessage `json:"conversationHistory,omitempty"`
	PageContext         turn.PageContext     `json:"pageContext"`
}

func (in *Input) request() turn.Request {
	return turn.Request{
		Message:             in.Message,
		SessionID:           in.SessionID,
		UserContext:         in.UserContext,
		ConversationHistory: in.ConversationHistory,
		PageContext:         in.PageContext,
	}
}

// Output flattens the routing fields so BPMN gateways can branch on them directly.
type Output struct {
	ChatResponse   string                `json:"chatResponse"`
	SessionID      string                `json:"sessionId"`
	UserID         string                `json:"userId,omitempty"`
	UserContext    string                `json:"userContext"`
	ContextSummary usercontext.Summary   `json:"contextSummary"`
	ExtractedInfo  turn.ExtractedInfo    `json:"extractedInfo"`
	MorphTrigger   *turn.MorphTrigger    `json:"morphTrigger,omitempty"`
	ShowCard       bool                  `json:"showCard"`
	Intent         string                `json:"intent"`
	Signals        []string              `json:"signals"`
	BuyIntentScore int                   `json:"buyIntentScore"`
	IntentCategory models.IntentCategory `json:"intentCategory"`
	PriorityTier   models.PriorityTier   `json:"priorityTier"`
}

func newOutput(resp *turn.Response) *Output {
	out := &Output{
		ChatResponse:   resp.Response,
		SessionID:      resp.SessionID,
		UserID:         resp.UserID,
		UserContext:    resp.UserContext,
		ContextSummary: resp.ContextSummary,
		ExtractedInfo:  resp.ExtractedInfo,
		MorphTrigger:   resp.MorphTrigger,
		ShowCard:       resp.MorphTrigger != nil,
		Intent:         resp.Intent,
		Signals:        resp.Signals,
	}
	if out.Signals == nil {
		out.Signals = []string{}
	}
	if resp.Lead != nil {
		out.BuyIntentScore = resp.Lead.BuyIntentScore
		out.IntentCategory = resp.Lead.IntentCategory
		out.PriorityTier = resp.Lead.PriorityTier
	}
	return out
}
