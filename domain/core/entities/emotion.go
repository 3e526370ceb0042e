package entities

import (
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// TextAnalysis holds the keyword evidence behind an emotion reading
type TextAnalysis struct {
	PositiveScore int      `json:"positiveScore"`
	NegativeScore int      `json:"negativeScore"`
	Keywords      []string `json:"keywords"`
}

// EmotionReading is the result of analysing one piece of text
type EmotionReading struct {
	Type       valueobjects.Sentiment `json:"type"`
	Intensity  float64                `json:"intensity"`
	Confidence float64                `json:"confidence"`
	Analysis   TextAnalysis           `json:"analysis"`
	Text       string                 `json:"text,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// PADPoint is one day on the pleasure/arousal/dominance chart
type PADPoint struct {
	Date      string  `json:"date"`
	Pleasure  float64 `json:"pleasure"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}
