package models

import "time"

// Sentiment labels an enriched content row.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Content is a piece of user text. Summary and Sentiment stay NULL until the
// analysis call has patched the row.
type Content struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Summary   *string   `gorm:"type:text" json:"summary"`
	Sentiment *string   `gorm:"size:20" json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentItem is the {id, text} projection used by list queries and the
// owner cache.
type ContentItem struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}
