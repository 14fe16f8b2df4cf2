// internal/workers/chat/generate-card-content/models.go
package generatecardcontent

import "lead-intelligence/internal/models"

type Input struct {
	CardType    models.CardType `json:"cardType"`
	SessionID   string          `json:"sessionId,omitempty"`
	UserContext string          `json:"userContext,omitempty"`
}

type Output struct {
	CardType       models.CardType          `json:"cardType"`
	Customizations models.CardCustomization `json:"customizations"`
	UserContext    string                   `json:"userContext"`
}
