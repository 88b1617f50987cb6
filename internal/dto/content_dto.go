package dto

import "github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"

type CreateContentRequest struct {
	Text string `json:"text"`
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type ContentResponse struct {
	ID        uint    `json:"id"`
	Text      string  `json:"text"`
	Summary   *string `json:"summary"`
	Sentiment *string `json:"sentiment"`
}

func NewContentResponse(c *models.Content) ContentResponse {
	return ContentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Summary:   c.Summary,
		Sentiment: c.Sentiment,
	}
}

type AnalyzeResponse struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}
