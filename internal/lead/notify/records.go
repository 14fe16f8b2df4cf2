// internal/lead/notify/records.go
package notify

import (
	"strings"

	"lead-intelligence/internal/lead/signals"
	"lead-intelligence/internal/models"

	"github.com/google/uuid"
)

// BuildLeadNotification flattens a user and their intelligence into the sales alert record.
func BuildLeadNotification(info models.UserInfo, li *models.LeadIntelligence) models.LeadNotification {
	return models.LeadNotification{
		ID:                     uuid.New().String(),
		Name:                   info.Name,
		Email:                  info.Email,
		Company:                info.Company,
		JobTitle:               info.JobTitle,
		IntentScore:            li.BuyIntentScore,
		Category:               li.IntentCategory,
		Urgency:                li.Urgency,
		CompanySize:            li.CompanySize,
		Industry:               li.Industry(),
		ComplianceRequirements: li.ComplianceRequirements(),
		SignalSummary:          strings.Join(signals.Types(li.BehavioralSignals), ", "),
		PriorityTier:           li.PriorityTier,
	}
}

func BuildWelcome(info models.UserInfo) models.WelcomeMessage {
	return models.WelcomeMessage{
		ID:      uuid.New().String(),
		Email:   info.Email,
		Name:    info.Name,
		Company: info.Company,
	}
}

// BuildSubscriber splits the display name and tags the contact by category, size and industry.
func BuildSubscriber(info models.UserInfo, li *models.LeadIntelligence) models.MailingListSubscriber {
	first, last := SplitName(info.Name)
	return models.MailingListSubscriber{
		Email:     info.Email,
		FirstName: first,
		LastName:  last,
		Company:   info.Company,
		JobTitle:  info.JobTitle,
		Tags:      SubscriberTags(li),
	}
}

// SubscriberTags derives mailing-list tags from intent category, company size and industry.
func SubscriberTags(li *models.LeadIntelligence) []string {
	tags := []string{"chat-lead"}
	if li == nil {
		return tags
	}
	if li.IntentCategory != "" {
		tags = append(tags, "intent-"+string(li.IntentCategory))
	}
	if li.CompanySize != "" && li.CompanySize != models.CompanySizeUnknown {
		tags = append(tags, "size-"+string(li.CompanySize))
	}
	if industry := li.Industry(); industry != "" {
		tags = append(tags, "industry-"+industry)
	}
	return tags
}

func SplitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
