// internal/workers/notification/send-lead-notification/models.go
package sendleadnotification

import "lead-intelligence/internal/models"

// Input carries either a ready notification record or the user and intelligence to build one from.
type Input struct {
	Kind             models.NotificationKind  `json:"kind"`
	Notification     *models.LeadNotification `json:"notification,omitempty"`
	Welcome          *models.WelcomeMessage   `json:"welcome,omitempty"`
	UserInfo         *models.UserInfo         `json:"userInfo,omitempty"`
	LeadIntelligence *models.LeadIntelligence `json:"leadIntelligence,omitempty"`
}

type Output struct {
	Kind             models.NotificationKind `json:"kind"`
	NotificationID   string                  `json:"notificationId"`
	NotificationSent bool                    `json:"notificationSent"`
	Skipped          bool                    `json:"skipped"`
	EmailMessageID   string                  `json:"emailMessageId,omitempty"`
	SMSMessageIDs    []string                `json:"smsMessageIds,omitempty"`
}
