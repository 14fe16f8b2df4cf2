// internal/chat/usercontext/questions.go
package usercontext

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"lead-intelligence/internal/models"
)

// ProfilingQuestion is a follow-up question the assistant may append to a reply.
type ProfilingQuestion struct {
	ID        string
	Text      string
	Priority  int
	Condition func(ctx *models.UserContext) bool
}

// Ordered by priority; lower numbers are asked first.
var profilingQuestions = []ProfilingQuestion{
	{
		ID:        "industry",
		Text:      "What industry is your organization in?",
		Priority:  1,
		Condition: func(c *models.UserContext) bool { return isBlank(c.Industry) },
	},
	{
		ID:        "pain_points",
		Text:      "What's the biggest challenge you're facing with AI governance today?",
		Priority:  2,
		Condition: func(c *models.UserContext) bool { return len(c.PainPoints) == 0 },
	},
	{
		ID:        "existing_ai",
		Text:      "Are you already running AI agents in production?",
		Priority:  3,
		Condition: func(c *models.UserContext) bool { return c.HasExistingAI == nil },
	},
	{
		ID:       "agent_count",
		Text:     "Roughly how many AI agents or workflows do you have running?",
		Priority: 4,
		Condition: func(c *models.UserContext) bool {
			return c.HasExistingAI != nil && *c.HasExistingAI && c.AIAgentCount == nil
		},
	},
	{
		ID:        "compliance",
		Text:      "Which compliance frameworks do you need to satisfy, for example HIPAA, SOC 2 or GDPR?",
		Priority:  5,
		Condition: func(c *models.UserContext) bool { return len(c.ComplianceFrameworks) == 0 },
	},
	{
		ID:       "company_size",
		Text:     "How large is your organization?",
		Priority: 6,
		Condition: func(c *models.UserContext) bool {
			return c.CompanySize == nil || *c.CompanySize == models.CompanySizeUnknown
		},
	},
	{
		ID:        "use_cases",
		Text:      "What are the main use cases you're applying AI to?",
		Priority:  7,
		Condition: func(c *models.UserContext) bool { return len(c.UseCases) == 0 },
	},
	{
		ID:       "email",
		Text:     "Would you like me to send you a tailored summary? What's the best email to reach you?",
		Priority: 8,
		Condition: func(c *models.UserContext) bool {
			return isBlank(c.Email) && c.EngagementLevel != "" && c.EngagementLevel != models.EngagementLow
		},
	},
}

const (
	interrogationWindow    = 4
	interrogationThreshold = 2
	askProbability         = 0.3
	minMessagesBeforeAsk   = 3
)

var forcedAskAt = map[int]bool{3: true, 6: true, 10: true}

// SelectNextQuestion returns the highest-priority unasked question whose condition holds, or nil.
// It returns nil when 2 or more of the last 4 assistant messages already ended with a question.
func SelectNextQuestion(ctx *models.UserContext, history []models.ChatMessage) *ProfilingQuestion {
	if recentQuestionCount(history) >= interrogationThreshold {
		return nil
	}
	for i := range profilingQuestions {
		q := &profilingQuestions[i]
		if Contains(ctx.QuestionsAsked, q.ID) {
			continue
		}
		if q.Condition(ctx) {
			return q
		}
	}
	return nil
}

// ShouldAskProfilingQuestion decides whether this turn may carry a profiling question.
// messageCount is the number of user messages so far including the current one. Outside the
// forced counts the answer is random with probability 0.3.
func ShouldAskProfilingQuestion(messageCount int, history []models.ChatMessage, rnd RandomSource) bool {
	if messageCount < minMessagesBeforeAsk {
		return false
	}
	if last, ok := lastAssistantMessage(history); ok && strings.Contains(last, "?") {
		return false
	}
	if forcedAskAt[messageCount] {
		return true
	}
	return rnd.Float64() < askProbability
}

func recentQuestionCount(history []models.ChatMessage) int {
	count, seen := 0, 0
	for i := len(history) - 1; i >= 0 && seen < interrogationWindow; i-- {
		if history[i].Role != models.RoleAssistant {
			continue
		}
		seen++
		if strings.HasSuffix(strings.TrimSpace(history[i].Content), "?") {
			count++
		}
	}
	return count
}

func lastAssistantMessage(history []models.ChatMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleAssistant {
			return history[i].Content, true
		}
	}
	return "", false
}

// RandomSource supplies the coin flips for the profiling scheduler.
type RandomSource interface {
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRandomSource returns a goroutine-safe source. A zero seed uses the current time.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}
