package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Comment is a raw social-media comment owned by the collector. The analyzer
// only reads id/text/created time and flips the Analyzed marker.
type Comment struct {
	ID          string
	Text        string
	CreatedTime time.Time
	Analyzed    bool
}

// Candidate is a named entity comments may refer to. Aliases are matched
// case-insensitively; an empty alias list is valid.
type Candidate struct {
	ID      int64
	Name    string
	Aliases []string
}

// Stance classifies a comment's position toward its resolved candidate.
type Stance string

const (
	StanceSupport    Stance = "support"
	StanceOppose     Stance = "oppose"
	StanceNeutral    Stance = "neutral"
	StanceIrrelevant Stance = "irrelevant"
)

// StanceLabels is the closed label set handed to the zero-shot classifier.
// Order matters only for presentation; the top-ranked label is authoritative.
var StanceLabels = []string{
	string(StanceSupport),
	string(StanceOppose),
	string(StanceNeutral),
	string(StanceIrrelevant),
}

// Sentiment classifies overall emotional polarity.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// CollapseSentiment maps an adapter-specific raw label onto the closed
// sentiment set by substring match on the lowercased label. Anything that is
// neither negative-ish nor positive-ish is neutral. This lossy collapse is
// part of the storage contract and must stay stable.
func CollapseSentiment(raw string) Sentiment {
	label := strings.ToLower(raw)
	switch {
	case strings.Contains(label, "neg"):
		return SentimentNegative
	case strings.Contains(label, "pos"):
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// StanceResult is the ranked output of the stance classifier.
type StanceResult struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Top returns the authoritative label, or empty when the classifier
// produced nothing.
func (r StanceResult) Top() string {
	if len(r.Labels) == 0 {
		return ""
	}
	return r.Labels[0]
}

// SentimentResult is the raw output of the sentiment classifier.
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisResult is one classified comment, persisted with the full raw
// classifier output for audit. At most one result exists per comment id.
type AnalysisResult struct {
	CommentID   string
	CandidateID int64
	Stance      Stance
	Sentiment   Sentiment
	Payload     json.RawMessage
}

// BatchReport summarizes one orchestrator invocation.
type BatchReport struct {
	Processed int `json:"processed"`
	Stored    int `json:"stored"`
}

// StanceCount is one row of the per-candidate stance aggregation.
type StanceCount struct {
	Candidate string `json:"candidate"`
	Stance    string `json:"stance"`
	Count     int64  `json:"count"`
}

// SentimentCount is one row of the per-candidate sentiment aggregation.
type SentimentCount struct {
	Candidate string `json:"candidate"`
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

// Summary groups both aggregations for the dashboard.
type Summary struct {
	Support   []StanceCount    `json:"support"`
	Sentiment []SentimentCount `json:"sentiment"`
}
