package presenter

import (
	"strings"

	"investor-radar/internal/radar/dto"
)

// Sentiment is one of the three news buckets.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists the buckets in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

var sentimentLabels = map[Sentiment]string{
	SentimentPositive: "Positive",
	SentimentNegative: "Negative",
	SentimentNeutral:  "Neutral",
}

// ParseSentiment maps an API sentiment label to a bucket. Labels outside the
// known vocabulary report false.
func ParseSentiment(label string) (Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "正面":
		return SentimentPositive, true
	case "negative", "负面":
		return SentimentNegative, true
	case "neutral", "中性":
		return SentimentNeutral, true
	default:
		return "", false
	}
}

// Label returns the tab title of the bucket.
func (s Sentiment) Label() string {
	return sentimentLabels[s]
}

// Placeholder returns the text shown when the bucket has no items.
func (s Sentiment) Placeholder() string {
	return "No " + strings.ToLower(s.Label()) + " news yet"
}

// SentimentBuckets holds a company's news split by sentiment. Each bucket
// keeps the original relative order.
type SentimentBuckets struct {
	Positive []dto.News
	Negative []dto.News
	Neutral  []dto.News
}

// PartitionBySentiment splits news into the three sentiment buckets. Items
// with an unrecognised sentiment are left out. A nil slice yields three
// empty buckets.
func PartitionBySentiment(news []dto.News) SentimentBuckets {
	buckets := SentimentBuckets{
		Positive: []dto.News{},
		Negative: []dto.News{},
		Neutral:  []dto.News{},
	}
	for _, n := range news {
		sentiment, ok := ParseSentiment(n.Sentiment)
		if !ok {
			continue
		}
		switch sentiment {
		case SentimentPositive:
			buckets.Positive = append(buckets.Positive, n)
		case SentimentNegative:
			buckets.Negative = append(buckets.Negative, n)
		case SentimentNeutral:
			buckets.Neutral = append(buckets.Neutral, n)
		}
	}
	return buckets
}

// Bucket returns the items of one bucket.
func (b SentimentBuckets) Bucket(s Sentiment) []dto.News {
	switch s {
	case SentimentPositive:
		return b.Positive
	case SentimentNegative:
		return b.Negative
	case SentimentNeutral:
		return b.Neutral
	default:
		return nil
	}
}
