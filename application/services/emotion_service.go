package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// MemoryClassification buckets memories by sentiment
type MemoryClassification struct {
	Positive []entities.Memory `json:"positive"`
	Negative []entities.Memory `json:"negative"`
	Neutral  []entities.Memory `json:"neutral"`
}

// EmotionSnapshot is everything the emotion page renders
type EmotionSnapshot struct {
	Current             entities.EmotionReading `json:"current"`
	HistorySize         int                     `json:"historySize"`
	Classification      MemoryClassification    `json:"classification"`
	PersonaInteractions map[string]interface{}  `json:"personaInteractions"`
	PADTrend            []entities.PADPoint     `json:"padTrend"`
	WeeklyReport        interface{}             `json:"weeklyReport"`
	MonthlyReport       interface{}             `json:"monthlyReport"`
}

// EmotionService tracks emotion readings and derived analysis for the session.
type EmotionService struct {
	history ports.Log[entities.EmotionReading]
	pad     ports.Log[entities.PADPoint]
	now     func() time.Time
	logger  *zap.Logger

	mu             sync.RWMutex
	current        entities.EmotionReading
	classification MemoryClassification
	interactions   map[string]interface{}
	weekly         interface{}
	monthly        interface{}
}

// NewEmotionService creates the service over two independently capped logs
func NewEmotionService(history ports.Log[entities.EmotionReading], pad ports.Log[entities.PADPoint], logger *zap.Logger) *EmotionService {
	return &EmotionService{
		history:      history,
		pad:          pad,
		now:          time.Now,
		logger:       logger,
		current:      neutralReading(),
		interactions: make(map[string]interface{}),
	}
}

func neutralReading() entities.EmotionReading {
	return entities.EmotionReading{Type: valueobjects.SentimentNeutral}
}

// Record stamps the reading, makes it current and appends it to the history
func (s *EmotionService) Record(reading entities.EmotionReading) entities.EmotionReading {
	reading.Timestamp = s.now()

	s.mu.Lock()
	s.current = reading
	s.mu.Unlock()

	s.history.Push(reading)
	return reading
}

// Current returns the latest reading, neutral before any was recorded
func (s *EmotionService) Current() entities.EmotionReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// History returns the retained readings, oldest first
func (s *EmotionService) History() []entities.EmotionReading {
	return s.history.Items()
}

// ClassifyMemory files the memory under a sentiment bucket. Anything other
// than positive or negative lands in neutral.
func (s *EmotionService) ClassifyMemory(memory entities.Memory, class valueobjects.Sentiment) {
	memory = memory.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	switch class {
	case valueobjects.SentimentPositive:
		s.classification.Positive = append(s.classification.Positive, memory)
	case valueobjects.SentimentNegative:
		s.classification.Negative = append(s.classification.Negative, memory)
	default:
		s.classification.Neutral = append(s.classification.Neutral, memory)
	}
}

// Classification returns a copy of the buckets
func (s *EmotionService) Classification() MemoryClassification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MemoryClassification{
		Positive: cloneMemories(s.classification.Positive),
		Negative: cloneMemories(s.classification.Negative),
		Neutral:  cloneMemories(s.classification.Neutral),
	}
}

// AddPADTrend appends a point to the capped PAD trend
func (s *EmotionService) AddPADTrend(point entities.PADPoint) {
	if point.Date == "" {
		point.Date = s.now().Format("2006-01-02")
	}
	s.pad.Push(point)
}

// PADTrend returns the retained PAD points
func (s *EmotionService) PADTrend() []entities.PADPoint {
	return s.pad.Items()
}

// SetPersonaInteraction stores the interaction summary for one persona
func (s *EmotionService) SetPersonaInteraction(personaID string, data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions[personaID] = data
}

// SetWeeklyReport replaces the weekly report slot
func (s *EmotionService) SetWeeklyReport(report interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly = report
}

// SetMonthlyReport replaces the monthly report slot
func (s *EmotionService) SetMonthlyReport(report interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthly = report
}

// Snapshot returns the whole emotion state
func (s *EmotionService) Snapshot() EmotionSnapshot {
	classification := s.Classification()

	s.mu.RLock()
	interactions := make(map[string]interface{}, len(s.interactions))
	for k, v := range s.interactions {
		interactions[k] = v
	}
	snap := EmotionSnapshot{
		Current:             s.current,
		Classification:      classification,
		PersonaInteractions: interactions,
		WeeklyReport:        s.weekly,
		MonthlyReport:       s.monthly,
	}
	s.mu.RUnlock()

	snap.HistorySize = s.history.Len()
	snap.PADTrend = s.pad.Items()
	return snap
}

// Clear empties the history and the classification buckets. The current
// reading, PAD trend and report slots are kept.
func (s *EmotionService) Clear() {
	s.history.Clear()

	s.mu.Lock()
	s.classification = MemoryClassification{}
	s.mu.Unlock()

	s.logger.Debug("Emotion history cleared")
}

func cloneMemories(in []entities.Memory) []entities.Memory {
	out := make([]entities.Memory, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
