// internal/llm/responder.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lead-intelligence/internal/common/config"
	commonhttp "lead-intelligence/internal/common/http"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/models"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrLLMTimeout          = errors.New("LLM_TIMEOUT")
	ErrLLMCompletionFailed = errors.New("LLM_COMPLETION_FAILED")
	ErrNotConfigured       = errors.New("LLM_NOT_CONFIGURED")
)

const systemPrompt = `You are the sales assistant for an AI agent governance platform. Answer briefly and concretely.
Never invent customer names, prices or certifications. When the visitor asks for a demo or pricing, offer to connect them with the sales team.`

// Request is one chat turn to complete.
type Request struct {
	Message string
	History []models.ChatMessage
	// Profile is a short description of what is known about the visitor.
	Profile string
}

// Responder drafts chat replies through an OpenAI-compatible chat completions API.
type Responder struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	maxRetries  int
	maxHistory  int
	configured  bool
	logger      logger.Logger
}

func NewResponder(cfg config.OpenAIConfig, maxHistory int, log logger.Logger) *Responder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = commonhttp.NewClient(config.GetDuration(cfg.Timeout))

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Responder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		maxRetries:  cfg.MaxRetries,
		maxHistory:  maxHistory,
		configured:  cfg.APIKey != "",
		logger:      log.WithFields(map[string]interface{}{"component": "llm"}),
	}
}

func (r *Responder) Configured() bool {
	return r != nil && r.configured
}

// Respond returns the assistant reply for req. Failures are ErrLLMTimeout or ErrLLMCompletionFailed.
func (r *Responder) Respond(ctx context.Context, req Request) (string, error) {
	if !r.Configured() {
		return "", ErrNotConfigured
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    r.buildMessages(req),
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrLLMTimeout
			}
		}

		start := time.Now()
		resp, err := r.client.CreateChatCompletion(ctx, chatReq)
		if err == nil {
			if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
				return "", fmt.Errorf("%w: empty completion", ErrLLMCompletionFailed)
			}
			r.logger.Debug("completion received", map[string]interface{}{
				"model":            resp.Model,
				"attempt":          attempt + 1,
				"latencyMs":        time.Since(start).Milliseconds(),
				"completionTokens": resp.Usage.CompletionTokens,
			})
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}

		if ctx.Err() != nil {
			return "", ErrLLMTimeout
		}
		lastErr = err
		if !retryable(err) {
			break
		}
		r.logger.Warn("completion attempt failed", map[string]interface{}{"attempt": attempt + 1, "error": err.Error()})
	}

	return "", fmt.Errorf("%w: %v", ErrLLMCompletionFailed, lastErr)
}

func (r *Responder) buildMessages(req Request) []openai.ChatCompletionMessage {
	system := systemPrompt
	if req.Profile != "" {
		system += "\n\nKnown about this visitor: " + req.Profile
	}
	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}

	history := req.History
	if r.maxHistory > 0 && len(history) > r.maxHistory {
		history = history[len(history)-r.maxHistory:]
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})
}

// retryable reports whether a failed call may succeed on a later attempt.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return true
}

var fallbackReplies = map[string]string{
	"demo_request":         "I'd be glad to set up a demo. Share your email and our team will reach out to schedule a time.",
	"pricing_inquiry":      "Pricing depends on how many AI agents you run and which deployment you need. I can connect you with sales for a tailored quote.",
	"comparison":           "Happy to compare. We focus on runtime governance, policy enforcement and audit trails for AI agents across providers.",
	"compliance_question":  "We support audit-ready logging and policy controls mapped to frameworks like HIPAA, SOC 2 and GDPR.",
	"integration_question": "We integrate with OpenAI, Anthropic, LangChain, AWS Bedrock and Azure OpenAI through an SDK and API.",
	"timeline_discussion":  "Most teams connect their first agents within days. A typical rollout takes a few weeks.",
	"roi_inquiry":          "Teams usually see savings from fewer incidents and faster audits. I can walk you through an ROI estimate.",
	"case_study_request":   "We have customer stories across healthcare, finance and technology. Which industry is closest to yours?",
	"technical_question":   "The platform runs as a managed service or self-hosted, with a lightweight SDK in front of your agents.",
	"feature_inquiry":      "Key capabilities include policy enforcement, real-time monitoring, audit trails and agent inventory.",
	"greeting":             "Hi! How can I help you with governing your AI agents today?",
}

const defaultFallback = "Thanks for your message. Could you tell me a bit more about what you're looking for?"

// FallbackResponse is the canned reply used when the completion service is unavailable.
func FallbackResponse(intent string) string {
	if reply, ok := fallbackReplies[intent]; ok {
		return reply
	}
	return defaultFallback
}
