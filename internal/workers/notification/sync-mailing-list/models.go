// internal/workers/notification/sync-mailing-list/models.go
package syncmailinglist

import "lead-intelligence/internal/models"

// Input takes either flat contact fields or a userInfo block; flat fields win.
type Input struct {
	Email            string                   `json:"email,omitempty"`
	Name             string                   `json:"name,omitempty"`
	Company          string                   `json:"company,omitempty"`
	JobTitle         string                   `json:"jobTitle,omitempty"`
	UserInfo         *models.UserInfo         `json:"userInfo,omitempty"`
	LeadIntelligence *models.LeadIntelligence `json:"leadIntelligence,omitempty"`
	Tags             []string                 `json:"tags,omitempty"`
}

func (in *Input) contact() models.UserInfo {
	var info models.UserInfo
	if in.UserInfo != nil {
		info = *in.UserInfo
	}
	if in.Email != "" {
		info.Email = in.Email
	}
	if in.Name != "" {
		info.Name = in.Name
	}
	if in.Company != "" {
		info.Company = in.Company
	}
	if in.JobTitle != "" {
		info.JobTitle = in.JobTitle
	}
	return info
}

type Output struct {
	ContactID  string   `json:"contactId"`
	Created    bool     `json:"created"`
	Subscribed bool     `json:"subscribed"`
	Tags       []string `json:"tags"`
}
