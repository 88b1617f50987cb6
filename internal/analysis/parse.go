package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
)

// ParseResult extracts the JSON object spanning the first '{' and the last
// '}' of raw. A missing summary becomes "" and a missing or unknown sentiment
// becomes Neutral.
func ParseResult(raw string) (Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Result{}, fmt.Errorf("%w: no JSON object in response", ErrAnalysis)
	}

	var parsed struct {
		Summary   *string `json:"summary"`
		Sentiment *string `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	res := Result{Sentiment: models.SentimentNeutral}
	if parsed.Summary != nil {
		res.Summary = *parsed.Summary
	}
	if parsed.Sentiment != nil {
		res.Sentiment = NormalizeSentiment(*parsed.Sentiment)
	}
	return res, nil
}

func NormalizeSentiment(s string) string {
	s = strings.TrimSpace(s)
	for _, known := range []string{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral} {
		if strings.EqualFold(s, known) {
			return known
		}
	}
	return models.SentimentNeutral
}
