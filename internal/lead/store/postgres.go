// internal/lead/store/postgres.go
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead-intelligence/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrReadFailed      = errors.New("STORE_READ_FAILED")
	ErrWriteFailed     = errors.New("STORE_WRITE_FAILED")
	ErrVersionConflict = errors.New("CONCURRENT_UPDATE_CONFLICT")
)

//go:embed schema.sql
var Schema string

// PostgresStore persists users, conversations and lead intelligence.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ==========================
// Users
// ==========================

// GetUserBySession returns nil when the session has no user yet.
func (s *PostgresStore) GetUserBySession(ctx context.Context, sessionID string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, COALESCE(email, ''), COALESCE(name, ''), COALESCE(company, ''),
		       COALESCE(job_title, ''), created_at, updated_at
		FROM users
		WHERE session_id = $1
	`, sessionID).Scan(&u.ID, &u.SessionID, &u.Email, &u.Name, &u.Company, &u.JobTitle, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrReadFailed, err)
	}
	return &u, nil
}

// UpsertUser inserts the session's user or fills in newly provided contact fields.
// Empty values never overwrite stored ones.
func (s *PostgresStore) UpsertUser(ctx context.Context, sessionID string, info models.UserInfo) (*models.User, error) {
	var u models.User
	now := s.now()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, session_id, email, name, company, job_title, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			email      = COALESCE(EXCLUDED.email, users.email),
			name       = COALESCE(EXCLUDED.name, users.name),
			company    = COALESCE(EXCLUDED.company, users.company),
			job_title  = COALESCE(EXCLUDED.job_title, users.job_title),
			updated_at = EXCLUDED.updated_at
		RETURNING id, session_id, COALESCE(email, ''), COALESCE(name, ''), COALESCE(company, ''),
		          COALESCE(job_title, ''), created_at, updated_at
	`, uuid.New().String(), sessionID, info.Email, info.Name, info.Company, info.JobTitle, now,
	).Scan(&u.ID, &u.SessionID, &u.Email, &u.Name, &u.Company, &u.JobTitle, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrWriteFailed, err)
	}
	return &u, nil
}

// ==========================
// Conversations
// ==========================

// UpsertConversation replaces the session's message list wholesale.
func (s *PostgresStore) UpsertConversation(ctx context.Context, conv *models.Conversation) error {
	messages := conv.Messages
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("%w: conversations: %v", ErrWriteFailed, err)
	}
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	conv.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, session_id, user_id, messages, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			user_id    = COALESCE(EXCLUDED.user_id, conversations.user_id),
			messages   = EXCLUDED.messages,
			updated_at = EXCLUDED.updated_at
	`, conv.ID, conv.SessionID, conv.UserID, payload, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: conversations: %v", ErrWriteFailed, err)
	}
	return nil
}

// ==========================
// Lead intelligence
// ==========================

const leadColumns = `id, user_id, buy_intent_score, intent_category, urgency, company_size,
	qualification_status, priority_tier, behavioral_signals, COALESCE(industry, ''),
	compliance_requirements, COALESCE(role_seniority, ''), COALESCE(job_title, ''),
	version, created_at, updated_at`

// GetLeadIntelligence returns nil when the user has no stored intelligence.
func (s *PostgresStore) GetLeadIntelligence(ctx context.Context, userID string) (*models.LeadIntelligence, error) {
	var (
		li          models.LeadIntelligence
		signalsJSON []byte
		industry    string
		compliance  []string
		seniority   string
		jobTitle    string
	)
	err := s.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM lead_intelligence WHERE user_id = $1`, userID).Scan(
		&li.ID, &li.UserID, &li.BuyIntentScore, &li.IntentCategory, &li.Urgency, &li.CompanySize,
		&li.QualificationStatus, &li.PriorityTier, &signalsJSON, &industry,
		pq.Array(&compliance), &seniority, &jobTitle,
		&li.Version, &li.CreatedAt, &li.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: lead_intelligence: %v", ErrReadFailed, err)
	}

	li.BehavioralSignals = []models.BehavioralSignal{}
	if len(signalsJSON) > 0 {
		if err := json.Unmarshal(signalsJSON, &li.BehavioralSignals); err != nil {
			return nil, fmt.Errorf("%w: behavioral_signals: %v", ErrReadFailed, err)
		}
	}
	if industry != "" || len(compliance) > 0 {
		li.CompanyResearch = &models.CompanyResearch{
			Industry:               industry,
			ComplianceRequirements: compliance,
		}
		if li.CompanySize != models.CompanySizeUnknown {
			li.CompanyResearch.CompanySize = li.CompanySize
		}
	}
	if seniority != "" {
		li.UserResearch = &models.UserResearch{RoleSeniority: models.RoleSeniority(seniority), JobTitle: jobTitle}
	}
	return &li, nil
}

// InsertLeadIntelligence creates the first row for a user. A concurrent insert yields ErrVersionConflict.
func (s *PostgresStore) InsertLeadIntelligence(ctx context.Context, li *models.LeadIntelligence) error {
	args, err := leadArgs(li)
	if err != nil {
		return err
	}
	if li.ID == "" {
		li.ID = uuid.New().String()
	}
	now := s.now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO lead_intelligence (
			user_id, buy_intent_score, intent_category, urgency, company_size,
			qualification_status, priority_tier, behavioral_signals, industry,
			compliance_requirements, role_seniority, job_title,
			id, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, NULLIF($11, ''), NULLIF($12, ''), $13, 1, $14, $14)
		ON CONFLICT (user_id) DO NOTHING
	`, append(args, li.ID, now)...)
	if err != nil {
		return fmt.Errorf("%w: lead_intelligence: %v", ErrWriteFailed, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVersionConflict
	}

	li.Version = 1
	li.CreatedAt = now
	li.UpdatedAt = now
	return nil
}

// UpdateLeadIntelligence writes li only if the stored version still equals li.Version.
func (s *PostgresStore) UpdateLeadIntelligence(ctx context.Context, li *models.LeadIntelligence) error {
	args, err := leadArgs(li)
	if err != nil {
		return err
	}
	now := s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE lead_intelligence SET
			buy_intent_score        = $2,
			intent_category         = $3,
			urgency                 = $4,
			company_size            = $5,
			qualification_status    = $6,
			priority_tier           = $7,
			behavioral_signals      = $8,
			industry                = NULLIF($9, ''),
			compliance_requirements = $10,
			role_seniority          = NULLIF($11, ''),
			job_title               = NULLIF($12, ''),
			version                 = version + 1,
			updated_at              = $14
		WHERE user_id = $1 AND version = $13
	`, append(args, li.Version, now)...)
	if err != nil {
		return fmt.Errorf("%w: lead_intelligence: %v", ErrWriteFailed, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVersionConflict
	}

	li.Version++
	li.UpdatedAt = now
	return nil
}

func leadArgs(li *models.LeadIntelligence) ([]interface{}, error) {
	signals := li.BehavioralSignals
	if signals == nil {
		signals = []models.BehavioralSignal{}
	}
	signalsJSON, err := json.Marshal(signals)
	if err != nil {
		return nil, fmt.Errorf("%w: behavioral_signals: %v", ErrWriteFailed, err)
	}

	compliance := li.ComplianceRequirements()
	if compliance == nil {
		compliance = []string{}
	}

	var seniority, jobTitle string
	if li.UserResearch != nil {
		seniority = string(li.UserResearch.RoleSeniority)
		jobTitle = li.UserResearch.JobTitle
	}

	return []interface{}{
		li.UserID, li.BuyIntentScore, string(li.IntentCategory), string(li.Urgency), string(li.CompanySize),
		string(li.QualificationStatus), string(li.PriorityTier), signalsJSON, li.Industry(),
		pq.Array(compliance), seniority, jobTitle,
	}, nil
}
