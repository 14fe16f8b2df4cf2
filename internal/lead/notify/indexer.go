// internal/lead/notify/indexer.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead-intelligence/internal/lead/signals"
	"lead-intelligence/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrSearchIndexFailed = errors.New("SEARCH_INDEX_FAILED")

// LeadIndexMapping is the mapping of the lead search index.
const LeadIndexMapping = `{
  "mappings": {
    "properties": {
      "user_id":                 {"type": "keyword"},
      "email":                   {"type": "keyword"},
      "name":                    {"type": "text"},
      "company":                 {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "buy_intent_score":        {"type": "integer"},
      "intent_category":         {"type": "keyword"},
      "urgency":                 {"type": "keyword"},
      "priority_tier":           {"type": "keyword"},
      "qualification_status":    {"type": "keyword"},
      "company_size":            {"type": "keyword"},
      "industry":                {"type": "keyword"},
      "compliance_requirements": {"type": "keyword"},
      "signal_types":            {"type": "keyword"},
      "updated_at":              {"type": "date"}
    }
  }
}`

// LeadDocument is the search view of one lead.
type LeadDocument struct {
	UserID                 string    `json:"user_id"`
	Email                  string    `json:"email,omitempty"`
	Name                   string    `json:"name,omitempty"`
	Company                string    `json:"company,omitempty"`
	BuyIntentScore         int       `json:"buy_intent_score"`
	IntentCategory         string    `json:"intent_category"`
	Urgency                string    `json:"urgency"`
	PriorityTier           string    `json:"priority_tier"`
	QualificationStatus    string    `json:"qualification_status"`
	CompanySize            string    `json:"company_size"`
	Industry               string    `json:"industry,omitempty"`
	ComplianceRequirements []string  `json:"compliance_requirements,omitempty"`
	SignalTypes            []string  `json:"signal_types"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func NewLeadDocument(info models.UserInfo, li *models.LeadIntelligence) LeadDocument {
	return LeadDocument{
		UserID:                 li.UserID,
		Email:                  info.Email,
		Name:                   info.Name,
		Company:                info.Company,
		BuyIntentScore:         li.BuyIntentScore,
		IntentCategory:         string(li.IntentCategory),
		Urgency:                string(li.Urgency),
		PriorityTier:           string(li.PriorityTier),
		QualificationStatus:    string(li.QualificationStatus),
		CompanySize:            string(li.CompanySize),
		Industry:               li.Industry(),
		ComplianceRequirements: li.ComplianceRequirements(),
		SignalTypes:            signals.Types(li.BehavioralSignals),
		UpdatedAt:              li.UpdatedAt,
	}
}

// ElasticsearchIndexer upserts lead documents keyed by user id.
type ElasticsearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchIndexer(client *elasticsearch.Client, index string) *ElasticsearchIndexer {
	return &ElasticsearchIndexer{client: client, index: index}
}

func (i *ElasticsearchIndexer) IndexLead(ctx context.Context, info models.UserInfo, li *models.LeadIntelligence) error {
	body, err := json.Marshal(NewLeadDocument(info, li))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearchIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: li.UserID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearchIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrSearchIndexFailed, res.Status())
	}
	return nil
}
