package presenter

import (
	"testing"

	"investor-radar/internal/radar/dto"

	"github.com/stretchr/testify/assert"
)

func TestPartitionBySentiment(t *testing.T) {
	news := []dto.News{
		{Title: "p1", Sentiment: "positive"},
		{Title: "n1", Sentiment: "negative"},
		{Title: "p2", Sentiment: "正面"},
		{Title: "u1", Sentiment: "neutral"},
		{Title: "x1", Sentiment: "mixed"},
		{Title: "p3", Sentiment: "Positive"},
		{Title: "n2", Sentiment: "负面"},
		{Title: "u2", Sentiment: "中性"},
	}

	buckets := PartitionBySentiment(news)

	assert.Equal(t, []string{"p1", "p2", "p3"}, titles(buckets.Positive))
	assert.Equal(t, []string{"n1", "n2"}, titles(buckets.Negative))
	assert.Equal(t, []string{"u1", "u2"}, titles(buckets.Neutral))
}

func TestPartitionBySentiment_CountsPositive(t *testing.T) {
	labels := []string{"positive", "negative", "positive", "neutral", "positive", "negative"}
	news := make([]dto.News, 0, len(labels))
	k := 0
	for i, label := range labels {
		if label == "positive" {
			k++
		}
		news = append(news, dto.News{Title: string(rune('a' + i)), Sentiment: label})
	}

	buckets := PartitionBySentiment(news)
	assert.Len(t, buckets.Positive, k)
	assert.Equal(t, []string{"a", "c", "e"}, titles(buckets.Positive))
}

func TestPartitionBySentiment_Absent(t *testing.T) {
	buckets := PartitionBySentiment(nil)

	for _, s := range Sentiments {
		assert.NotNil(t, buckets.Bucket(s))
		assert.Empty(t, buckets.Bucket(s))
	}
}

func TestParseSentiment(t *testing.T) {
	s, ok := ParseSentiment(" NEGATIVE ")
	assert.True(t, ok)
	assert.Equal(t, SentimentNegative, s)

	_, ok = ParseSentiment("bullish")
	assert.False(t, ok)
}

func TestSentimentPlaceholder(t *testing.T) {
	assert.Equal(t, "No positive news yet", SentimentPositive.Placeholder())
	assert.Equal(t, "Neutral", SentimentNeutral.Label())
}

func titles(news []dto.News) []string {
	out := make([]string, 0, len(news))
	for _, n := range news {
		out = append(out, n.Title)
	}
	return out
}
