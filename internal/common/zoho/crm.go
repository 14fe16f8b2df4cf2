// internal/common/zoho/crm.go
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lead-intelligence/internal/common/config"
	commonhttp "lead-intelligence/internal/common/http"
)

const defaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	oauthToken string
	baseURL    string
	leadSource string
	httpClient commonhttp.Doer
}

type Tag struct {
	Name string `json:"name"`
}

type Contact struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"Email"`
	FirstName string `json:"First_Name,omitempty"`
	LastName  string `json:"Last_Name"`
	Company   string `json:"Account_Name,omitempty"`
	Title     string `json:"Title,omitempty"`
	Source    string `json:"Lead_Source,omitempty"`
	Tags      []Tag  `json:"Tag,omitempty"`
}

type CreateContactResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(cfg config.ZohoConfig, timeout time.Duration) *CRMClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &CRMClient{
		oauthToken: cfg.AuthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		leadSource: cfg.LeadSource,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// Configured reports whether an OAuth token is available.
func (c *CRMClient) Configured() bool {
	return c.oauthToken != ""
}

func (c *CRMClient) CreateContact(ctx context.Context, contact *Contact) (string, error) {
	if contact.Source == "" {
		contact.Source = c.leadSource
	}

	payload := map[string]interface{}{
		"data": []Contact{*contact},
	}
	body, status, err := c.do(ctx, http.MethodPost, c.baseURL+"/Contacts", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return "", fmt.Errorf("failed to create contact (status %d): %s", status, string(body))
	}

	var createResp CreateContactResponse
	if err := json.Unmarshal(body, &createResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(createResp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if createResp.Data[0].Status != "success" {
		return "", fmt.Errorf("contact creation failed: %s", createResp.Data[0].Message)
	}

	return createResp.Data[0].Details.ID, nil
}

// SearchContacts returns contacts matching the email. Zoho answers 204 when nothing matches.
func (c *CRMClient) SearchContacts(ctx context.Context, email string) ([]Contact, error) {
	endpoint := fmt.Sprintf("%s/Contacts/search?email=%s", c.baseURL, url.QueryEscape(email))

	body, status, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("failed to search contacts (status %d): %s", status, string(body))
	}

	var result struct {
		Data []Contact `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}

// AddTags attaches tags to an existing contact.
func (c *CRMClient) AddTags(ctx context.Context, contactID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	endpoint := fmt.Sprintf("%s/Contacts/%s/actions/add_tags?tag_names=%s",
		c.baseURL, url.PathEscape(contactID), url.QueryEscape(strings.Join(tags, ",")))

	body, status, err := c.do(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("failed to add tags (status %d): %s", status, string(body))
	}
	return nil
}

func (c *CRMClient) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
