// internal/models/conversation.go
package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// User is the identified visitor behind a chat session.
type User struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	Email     string    `json:"email,omitempty" db:"email"`
	Name      string    `json:"name,omitempty" db:"name"`
	Company   string    `json:"company,omitempty" db:"company"`
	JobTitle  string    `json:"jobTitle,omitempty" db:"job_title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (u *User) Info() UserInfo {
	if u == nil {
		return UserInfo{}
	}
	return UserInfo{Email: u.Email, Name: u.Name, Company: u.Company, JobTitle: u.JobTitle}
}

// Conversation is the single active transcript for a session.
type Conversation struct {
	ID        string        `json:"id" db:"id"`
	SessionID string        `json:"sessionId" db:"session_id"`
	UserID    string        `json:"userId,omitempty" db:"user_id"`
	Messages  []ChatMessage `json:"messages" db:"messages"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// UserMessages returns the content of every user-authored message in order.
func UserMessages(history []ChatMessage) []string {
	out := make([]string, 0, len(history))
	for _, m := range history {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}
