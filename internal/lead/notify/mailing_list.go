// internal/lead/notify/mailing_list.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/common/zoho"
	"lead-intelligence/internal/models"
)

var ErrMailingListSyncFailed = errors.New("MAILING_LIST_SYNC_FAILED")

// CRM is the subset of the Zoho client the mailing-list sink needs.
type CRM interface {
	Configured() bool
	SearchContacts(ctx context.Context, email string) ([]zoho.Contact, error)
	CreateContact(ctx context.Context, contact *zoho.Contact) (string, error)
	AddTags(ctx context.Context, contactID string, tags []string) error
}

type SubscribeResult struct {
	ContactID string `json:"contactId"`
	Created   bool   `json:"created"`
}

// ZohoMailingList keeps chat leads subscribed as tagged CRM contacts.
type ZohoMailingList struct {
	crm    CRM
	logger logger.Logger
}

func NewZohoMailingList(crm CRM, log logger.Logger) *ZohoMailingList {
	return &ZohoMailingList{crm: crm, logger: log.WithFields(map[string]interface{}{"component": "mailing-list"})}
}

// Subscribe creates the contact when missing and otherwise only adds tags.
func (m *ZohoMailingList) Subscribe(ctx context.Context, sub models.MailingListSubscriber) (*SubscribeResult, error) {
	const kind = "mailing_list"
	if m.crm == nil || !m.crm.Configured() {
		return nil, ErrNotConfigured
	}
	email := strings.ToLower(strings.TrimSpace(sub.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: subscriber has no email", ErrMailingListSyncFailed)
	}

	existing, err := m.crm.SearchContacts(ctx, email)
	if err != nil {
		metrics.LeadNotifications.WithLabelValues(kind, "failed").Inc()
		return nil, fmt.Errorf("%w: search: %v", ErrMailingListSyncFailed, err)
	}

	if len(existing) > 0 {
		contactID := existing[0].ID
		if err := m.crm.AddTags(ctx, contactID, sub.Tags); err != nil {
			metrics.LeadNotifications.WithLabelValues(kind, "failed").Inc()
			return nil, fmt.Errorf("%w: tag: %v", ErrMailingListSyncFailed, err)
		}
		metrics.LeadNotifications.WithLabelValues(kind, "updated").Inc()
		return &SubscribeResult{ContactID: contactID, Created: false}, nil
	}

	lastName := sub.LastName
	if lastName == "" {
		lastName = sub.FirstName
	}
	if lastName == "" {
		lastName = email
	}

	contact := &zoho.Contact{
		Email:     email,
		FirstName: sub.FirstName,
		LastName:  lastName,
		Company:   sub.Company,
		Title:     sub.JobTitle,
	}
	for _, tag := range sub.Tags {
		contact.Tags = append(contact.Tags, zoho.Tag{Name: tag})
	}

	contactID, err := m.crm.CreateContact(ctx, contact)
	if err != nil {
		metrics.LeadNotifications.WithLabelValues(kind, "failed").Inc()
		return nil, fmt.Errorf("%w: create: %v", ErrMailingListSyncFailed, err)
	}

	metrics.LeadNotifications.WithLabelValues(kind, "sent").Inc()
	m.logger.Info("contact subscribed", map[string]interface{}{"contactId": contactID, "tags": sub.Tags})
	return &SubscribeResult{ContactID: contactID, Created: true}, nil
}
