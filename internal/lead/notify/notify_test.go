// internal/lead/notify/notify_test.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/zoho"
	"lead-intelligence/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test doubles
// ==========================

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendHTML(ctx context.Context, to []string, subject, html, text string) (string, error) {
	args := m.Called(ctx, to, subject, html, text)
	return args.String(0), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) Configured() bool { return m.Called().Bool(0) }

func (m *MockCRM) SearchContacts(ctx context.Context, email string) ([]zoho.Contact, error) {
	args := m.Called(ctx, email)
	contacts, _ := args.Get(0).([]zoho.Contact)
	return contacts, args.Error(1)
}

func (m *MockCRM) CreateContact(ctx context.Context, contact *zoho.Contact) (string, error) {
	args := m.Called(ctx, contact)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) AddTags(ctx context.Context, contactID string, tags []string) error {
	return m.Called(ctx, contactID, tags).Error(0)
}

func hotLead() *models.LeadIntelligence {
	return &models.LeadIntelligence{
		UserID:         "u-1",
		BuyIntentScore: 82,
		IntentCategory: models.IntentCategoryHot,
		Urgency:        models.UrgencyImmediate,
		CompanySize:    models.CompanySizeEnterprise,
		PriorityTier:   models.PriorityTier1,
		BehavioralSignals: []models.BehavioralSignal{
			{Type: models.SignalDemoRequest, Content: "demo please", Confidence: 0.9},
			{Type: models.SignalComplianceMention, Content: "HIPAA", Confidence: 0.8},
			{Type: models.SignalDemoRequest, Content: "demo again", Confidence: 0.9},
		},
		CompanyResearch: &models.CompanyResearch{Industry: "healthcare", ComplianceRequirements: []string{"HIPAA"}},
		UpdatedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

var contact = models.UserInfo{Email: "jane@acme.com", Name: "Jane van Doe", Company: "Acme Health", JobTitle: "CTO"}

// ==========================
// Records
// ==========================

func TestBuildLeadNotification(t *testing.T) {
	rec := BuildLeadNotification(contact, hotLead())

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "demo_request, compliance_mention", rec.SignalSummary)
	assert.Equal(t, "healthcare", rec.Industry)
	assert.Equal(t, []string{"HIPAA"}, rec.ComplianceRequirements)
	assert.Equal(t, 82, rec.IntentScore)
}

func TestBuildSubscriber(t *testing.T) {
	sub := BuildSubscriber(contact, hotLead())

	assert.Equal(t, "Jane", sub.FirstName)
	assert.Equal(t, "van Doe", sub.LastName)
	assert.Equal(t, []string{"chat-lead", "intent-hot", "size-enterprise", "industry-healthcare"}, sub.Tags)

	unknown := &models.LeadIntelligence{IntentCategory: models.IntentCategoryCold, CompanySize: models.CompanySizeUnknown}
	assert.Equal(t, []string{"chat-lead", "intent-cold"}, SubscriberTags(unknown))
	assert.Equal(t, []string{"chat-lead"}, SubscriberTags(nil))
}

// ==========================
// Sales notifier
// ==========================

func TestNotifySalesTeam_EmailAndSMS(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)

	email.On("SendHTML", mock.Anything, []string{"sales@example.com"},
		mock.MatchedBy(func(s string) bool { return strings.HasPrefix(s, "[TIER1] hot lead: Jane van Doe") }),
		mock.MatchedBy(func(h string) bool { return strings.Contains(h, "HIPAA") }),
		mock.Anything,
	).Return("email-1", nil)
	sms.On("SendSMS", mock.Anything, "+15550100", mock.Anything).Return("sms-1", nil)
	sms.On("SendSMS", mock.Anything, "+15550101", mock.Anything).Return("", errors.New("throttled"))

	n := NewSalesNotifier(email, sms, config.NotificationConfig{
		SalesAlerts: true,
		SalesEmails: []string{"sales@example.com"},
	}, []string{"+15550100", "+15550101"}, logger.NewTestLogger(t))

	res, err := n.NotifySalesTeam(context.Background(), BuildLeadNotification(contact, hotLead()))

	require.NoError(t, err)
	assert.Equal(t, "email-1", res.EmailMessageID)
	assert.Equal(t, []string{"sms-1"}, res.SMSMessageIDs)
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestNotifySalesTeam_NoSMSBelowImmediate(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	email.On("SendHTML", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("email-1", nil)

	n := NewSalesNotifier(email, sms, config.NotificationConfig{
		SalesAlerts: true,
		SalesEmails: []string{"sales@example.com"},
	}, []string{"+15550100"}, logger.NewTestLogger(t))

	li := hotLead()
	li.Urgency = models.UrgencyHigh
	_, err := n.NotifySalesTeam(context.Background(), BuildLeadNotification(contact, li))

	require.NoError(t, err)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifySalesTeam_SkippedAndFailed(t *testing.T) {
	disabled := NewSalesNotifier(nil, nil, config.NotificationConfig{}, nil, logger.NewTestLogger(t))
	res, err := disabled.NotifySalesTeam(context.Background(), models.LeadNotification{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	email := new(MockEmailSender)
	email.On("SendHTML", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("ses down"))
	failing := NewSalesNotifier(email, nil, config.NotificationConfig{
		SalesAlerts: true,
		SalesEmails: []string{"sales@example.com"},
	}, nil, logger.NewTestLogger(t))

	_, err = failing.NotifySalesTeam(context.Background(), BuildLeadNotification(contact, hotLead()))
	assert.ErrorIs(t, err, ErrNotificationFailed)
}

func TestSendWelcome(t *testing.T) {
	email := new(MockEmailSender)
	email.On("SendHTML", mock.Anything, []string{"jane@acme.com"}, "Welcome", mock.MatchedBy(func(h string) bool {
		return strings.Contains(h, "Jane van Doe") && strings.Contains(h, "Acme Health")
	}), mock.Anything).Return("welcome-1", nil)

	n := NewSalesNotifier(email, nil, config.NotificationConfig{
		WelcomeEnabled: true,
		WelcomeSubject: "Welcome",
	}, nil, logger.NewTestLogger(t))

	res, err := n.SendWelcome(context.Background(), BuildWelcome(contact))
	require.NoError(t, err)
	assert.Equal(t, "welcome-1", res.EmailMessageID)

	_, err = n.SendWelcome(context.Background(), models.WelcomeMessage{Name: "No Email"})
	assert.ErrorIs(t, err, ErrNotificationFailed)
}

// ==========================
// Mailing list
// ==========================

func TestSubscribe_CreatesContact(t *testing.T) {
	crm := new(MockCRM)
	crm.On("Configured").Return(true)
	crm.On("SearchContacts", mock.Anything, "jane@acme.com").Return(nil, nil)
	crm.On("CreateContact", mock.Anything, mock.MatchedBy(func(c *zoho.Contact) bool {
		return c.LastName == "van Doe" && c.Company == "Acme Health" && len(c.Tags) == 4
	})).Return("z-9", nil)

	ml := NewZohoMailingList(crm, logger.NewTestLogger(t))
	sub := BuildSubscriber(contact, hotLead())
	sub.Email = " Jane@Acme.com "

	res, err := ml.Subscribe(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, &SubscribeResult{ContactID: "z-9", Created: true}, res)
	crm.AssertExpectations(t)
}

func TestSubscribe_ExistingContactGetsTags(t *testing.T) {
	crm := new(MockCRM)
	crm.On("Configured").Return(true)
	crm.On("SearchContacts", mock.Anything, "jane@acme.com").Return([]zoho.Contact{{ID: "z-1"}}, nil)
	crm.On("AddTags", mock.Anything, "z-1", mock.Anything).Return(nil)

	ml := NewZohoMailingList(crm, logger.NewTestLogger(t))
	res, err := ml.Subscribe(context.Background(), BuildSubscriber(contact, hotLead()))

	require.NoError(t, err)
	assert.False(t, res.Created)
	crm.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
}

func TestSubscribe_Errors(t *testing.T) {
	unconfigured := new(MockCRM)
	unconfigured.On("Configured").Return(false)
	_, err := NewZohoMailingList(unconfigured, logger.NewTestLogger(t)).Subscribe(context.Background(), models.MailingListSubscriber{Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	crm := new(MockCRM)
	crm.On("Configured").Return(true)
	crm.On("SearchContacts", mock.Anything, mock.Anything).Return(nil, errors.New("401"))
	_, err = NewZohoMailingList(crm, logger.NewTestLogger(t)).Subscribe(context.Background(), models.MailingListSubscriber{Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrMailingListSyncFailed)
}

// ==========================
// Search indexer
// ==========================

func TestElasticsearchIndexer_IndexLead(t *testing.T) {
	var gotPath string
	var gotDoc LeadDocument

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut || r.Method == http.MethodPost {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotDoc)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result":"created"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	indexer := NewElasticsearchIndexer(client, "lead-intelligence")
	require.NoError(t, indexer.IndexLead(context.Background(), contact, hotLead()))

	assert.Equal(t, "/lead-intelligence/_doc/u-1", gotPath)
	assert.Equal(t, "tier1", gotDoc.PriorityTier)
	assert.Equal(t, []string{"demo_request", "compliance_mention"}, gotDoc.SignalTypes)
}

func TestElasticsearchIndexer_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	err = NewElasticsearchIndexer(client, "lead-intelligence").IndexLead(context.Background(), contact, hotLead())
	assert.ErrorIs(t, err, ErrSearchIndexFailed)
}
