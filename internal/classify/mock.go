package classify

import (
	"context"
	"hash/fnv"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
)

// Mock is a model-free classifier for local runs and tests. It picks labels
// by hashing the input text, so the same comment always classifies the same
// way across runs.
type Mock struct{}

var _ ports.Classifier = (*Mock)(nil)

// NewMock returns the deterministic mock classifier.
func NewMock() *Mock {
	return &Mock{}
}

var mockSentiments = []string{"POSITIVE", "NEGATIVE", "NEUTRAL"}

// ClassifyStance rotates the label set so the hash-chosen label ranks first,
// with decaying scores for the rest.
func (m *Mock) ClassifyStance(_ context.Context, text string, labels []string) (domain.StanceResult, error) {
	if len(labels) == 0 {
		labels = domain.StanceLabels
	}

	pick := int(textHash(text) % uint32(len(labels)))
	result := domain.StanceResult{
		Labels: make([]string, 0, len(labels)),
		Scores: make([]float64, 0, len(labels)),
	}

	score := 0.8
	for i := range labels {
		result.Labels = append(result.Labels, labels[(pick+i)%len(labels)])
		result.Scores = append(result.Scores, score)
		score /= 2
	}
	return result, nil
}

// ClassifySentiment returns an upstream-style uppercase label so the
// pipeline's label collapse is exercised the same way as with a real model.
func (m *Mock) ClassifySentiment(_ context.Context, text string) (domain.SentimentResult, error) {
	pick := int(textHash(text) % uint32(len(mockSentiments)))
	return domain.SentimentResult{Label: mockSentiments[pick], Score: 0.7}, nil
}

func textHash(text string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return h.Sum32()
}
