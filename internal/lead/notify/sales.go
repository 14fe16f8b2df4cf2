// internal/lead/notify/sales.go
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/metrics"
	"lead-intelligence/internal/models"
)

var (
	ErrNotificationFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrNotConfigured      = errors.New("NOTIFICATION_NOT_CONFIGURED")
)

type EmailSender interface {
	SendHTML(ctx context.Context, to []string, subject, html, text string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// Result reports what a dispatch actually delivered.
type Result struct {
	EmailMessageID string   `json:"emailMessageId,omitempty"`
	SMSMessageIDs  []string `json:"smsMessageIds,omitempty"`
	Skipped        bool     `json:"skipped"`
}

var salesAlertTemplate = template.Must(template.New("sales").Parse(`<h2>{{.Category}} lead: {{.Name}}</h2>
<p><strong>{{.Email}}</strong>{{if .Company}} at {{.Company}}{{end}}{{if .JobTitle}} ({{.JobTitle}}){{end}}</p>
<ul>
<li>Intent score: {{.IntentScore}}</li>
<li>Urgency: {{.Urgency}}</li>
<li>Priority: {{.PriorityTier}}</li>
<li>Company size: {{.CompanySize}}</li>
{{if .Industry}}<li>Industry: {{.Industry}}</li>{{end}}
{{if .ComplianceRequirements}}<li>Compliance: {{range $i, $c := .ComplianceRequirements}}{{if $i}}, {{end}}{{$c}}{{end}}</li>{{end}}
<li>Signals: {{.SignalSummary}}</li>
</ul>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for chatting with us{{if .Company}} about {{.Company}}{{end}}. A member of our team will follow up with
material tailored to what you shared.</p>`))

// SalesNotifier sends sales alerts and welcome emails through SES, with SMS escalation through SNS.
type SalesNotifier struct {
	email  EmailSender
	sms    SMSSender
	cfg    config.NotificationConfig
	phones []string
	logger logger.Logger
}

// NewSalesNotifier accepts nil senders; the matching channel is then skipped.
func NewSalesNotifier(email EmailSender, sms SMSSender, cfg config.NotificationConfig, phones []string, log logger.Logger) *SalesNotifier {
	return &SalesNotifier{
		email:  email,
		sms:    sms,
		cfg:    cfg,
		phones: phones,
		logger: log.WithFields(map[string]interface{}{"component": "sales-notifier"}),
	}
}

// NotifySalesTeam emails the sales inbox and texts the on-call phones for tier1 leads with immediate urgency.
func (n *SalesNotifier) NotifySalesTeam(ctx context.Context, rec models.LeadNotification) (*Result, error) {
	kind := string(models.NotificationSalesAlert)
	if !n.cfg.SalesAlerts || n.email == nil || len(n.cfg.SalesEmails) == 0 {
		metrics.LeadNotifications.WithLabelValues(kind, "skipped").Inc()
		return &Result{Skipped: true}, nil
	}

	var html bytes.Buffer
	if err := salesAlertTemplate.Execute(&html, rec); err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrNotificationFailed, err)
	}

	subject := fmt.Sprintf("[%s] %s lead: %s (score %d)", strings.ToUpper(string(rec.PriorityTier)), rec.Category, displayName(rec), rec.IntentScore)
	msgID, err := n.email.SendHTML(ctx, n.cfg.SalesEmails, subject, html.String(), salesText(rec))
	if err != nil {
		metrics.LeadNotifications.WithLabelValues(kind, "failed").Inc()
		return nil, fmt.Errorf("%w: email: %v", ErrNotificationFailed, err)
	}
	result := &Result{EmailMessageID: msgID}

	if n.sms != nil && rec.PriorityTier == models.PriorityTier1 && rec.Urgency == models.UrgencyImmediate {
		text := fmt.Sprintf("Tier 1 lead %s (%d) wants to move now. Check your inbox.", displayName(rec), rec.IntentScore)
		for _, phone := range n.phones {
			id, err := n.sms.SendSMS(ctx, phone, text)
			if err != nil {
				n.logger.Warn("sms alert failed", map[string]interface{}{"phone": phone, "error": err.Error()})
				continue
			}
			result.SMSMessageIDs = append(result.SMSMessageIDs, id)
		}
	}

	metrics.LeadNotifications.WithLabelValues(kind, "sent").Inc()
	n.logger.Info("sales notification sent", map[string]interface{}{
		"notificationId": rec.ID,
		"priorityTier":   rec.PriorityTier,
		"smsCount":       len(result.SMSMessageIDs),
	})
	return result, nil
}

// SendWelcome emails a first-time contact.
func (n *SalesNotifier) SendWelcome(ctx context.Context, msg models.WelcomeMessage) (*Result, error) {
	kind := string(models.NotificationWelcome)
	if !n.cfg.WelcomeEnabled || n.email == nil {
		metrics.LeadNotifications.WithLabelValues(kind, "skipped").Inc()
		return &Result{Skipped: true}, nil
	}
	if msg.Email == "" {
		return nil, fmt.Errorf("%w: welcome without recipient", ErrNotificationFailed)
	}

	var html bytes.Buffer
	if err := welcomeTemplate.Execute(&html, msg); err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrNotificationFailed, err)
	}
	text := fmt.Sprintf("Hi %s, thanks for chatting with us. A member of our team will follow up shortly.", msg.Name)

	msgID, err := n.email.SendHTML(ctx, []string{msg.Email}, n.cfg.WelcomeSubject, html.String(), text)
	if err != nil {
		metrics.LeadNotifications.WithLabelValues(kind, "failed").Inc()
		return nil, fmt.Errorf("%w: email: %v", ErrNotificationFailed, err)
	}

	metrics.LeadNotifications.WithLabelValues(kind, "sent").Inc()
	return &Result{EmailMessageID: msgID}, nil
}

func displayName(rec models.LeadNotification) string {
	if rec.Name != "" {
		return rec.Name
	}
	if rec.Email != "" {
		return rec.Email
	}
	return "anonymous visitor"
}

func salesText(rec models.LeadNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s lead: %s <%s>\n", rec.Category, displayName(rec), rec.Email)
	if rec.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", rec.Company)
	}
	fmt.Fprintf(&b, "Score: %d, urgency: %s, tier: %s, size: %s\n", rec.IntentScore, rec.Urgency, rec.PriorityTier, rec.CompanySize)
	if rec.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", rec.Industry)
	}
	if len(rec.ComplianceRequirements) > 0 {
		fmt.Fprintf(&b, "Compliance: %s\n", strings.Join(rec.ComplianceRequirements, ", "))
	}
	fmt.Fprintf(&b, "Signals: %s\n", rec.SignalSummary)
	return b.String()
}
