package mockbackend

import (
	"math"
	"strings"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"
)

var (
	positiveWords = []string{"开心", "高兴", "快乐", "美好", "喜欢", "满意", "舒服"}
	negativeWords = []string{"难过", "伤心", "痛苦", "担心", "害怕", "生气", "失望"}
)

// AnalyzeText classifies text by counting keyword occurrences.
// Every occurrence counts, so repeated words raise the score.
func AnalyzeText(text string, rng random.Source) entities.EmotionReading {
	var pos, neg int
	keywords := []string{}
	for _, w := range positiveWords {
		if n := strings.Count(text, w); n > 0 {
			pos += n
			keywords = append(keywords, w)
		}
	}
	for _, w := range negativeWords {
		if n := strings.Count(text, w); n > 0 {
			neg += n
			keywords = append(keywords, w)
		}
	}

	sentiment := valueobjects.SentimentNeutral
	intensity := 0.5
	switch {
	case pos > neg:
		sentiment = valueobjects.SentimentPositive
		intensity = saturate(pos)
	case neg > pos:
		sentiment = valueobjects.SentimentNegative
		intensity = saturate(neg)
	}

	return entities.EmotionReading{
		Type:       sentiment,
		Intensity:  intensity,
		Confidence: 0.7 + rng.Float64()*0.2,
		Analysis: entities.TextAnalysis{
			PositiveScore: pos,
			NegativeScore: neg,
			Keywords:      keywords,
		},
		Text: text,
	}
}

func saturate(score int) float64 {
	return math.Min(0.9, 0.5+float64(score)*0.2)
}
