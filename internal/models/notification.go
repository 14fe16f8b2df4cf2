// internal/models/notification.go
package models

type NotificationKind string

const (
	NotificationSalesAlert NotificationKind = "sales_alert"
	NotificationWelcome    NotificationKind = "welcome"
)

// LeadNotification is the flat record handed to the sales notification sink.
type LeadNotification struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	Email                  string         `json:"email"`
	Company                string         `json:"company,omitempty"`
	JobTitle               string         `json:"jobTitle,omitempty"`
	IntentScore            int            `json:"intentScore"`
	Category               IntentCategory `json:"category"`
	Urgency                Urgency        `json:"urgency"`
	CompanySize            CompanySize    `json:"companySize"`
	Industry               string         `json:"industry,omitempty"`
	ComplianceRequirements []string       `json:"complianceRequirements,omitempty"`
	SignalSummary          string         `json:"signalSummary"`
	PriorityTier           PriorityTier   `json:"priorityTier"`
}

type WelcomeMessage struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// MailingListSubscriber is what the mailing-list sink receives.
type MailingListSubscriber struct {
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName,omitempty"`
	Company   string   `json:"company,omitempty"`
	JobTitle  string   `json:"jobTitle,omitempty"`
	Tags      []string `json:"tags"`
}
