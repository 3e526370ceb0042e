// Package resilience guards calls to the remote backend.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the configuration used in production
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Observer receives call outcomes and breaker transitions
type Observer interface {
	RecordBackendCall(operation string, err error)
	SetBreakerState(name string, state int)
}

type nopObserver struct{}

func (nopObserver) RecordBackendCall(string, error) {}
func (nopObserver) SetBreakerState(string, int)     {}

// BreakerBackend wraps every ports.Backend call in one shared circuit breaker.
// Rejected credentials and caller cancellation do not count as failures.
type BreakerBackend struct {
	next     ports.Backend
	cb       *gobreaker.CircuitBreaker
	observer Observer
}

var _ ports.Backend = (*BreakerBackend)(nil)

// NewBreakerBackend creates the decorator; observer may be nil
func NewBreakerBackend(next ports.Backend, cfg BreakerConfig, observer Observer, logger *zap.Logger) *BreakerBackend {
	if observer == nil {
		observer = nopObserver{}
	}
	b := &BreakerBackend{next: next, observer: observer}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			observer.SetBreakerState(name, int(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ports.ErrInvalidCredentials) ||
				errors.Is(err, context.Canceled)
		},
	})
	return b
}

// State exposes the breaker state for readiness checks
func (b *BreakerBackend) State() gobreaker.State {
	return b.cb.State()
}

// ErrBackendUnavailable is reported by Ready while the breaker is open
var ErrBackendUnavailable = errors.New("backend circuit open")

// Ready returns ErrBackendUnavailable while the breaker is open
func (b *BreakerBackend) Ready() error {
	if b.cb.State() == gobreaker.StateOpen {
		return ErrBackendUnavailable
	}
	return nil
}

func call[T any](b *BreakerBackend, op string, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	b.observer.RecordBackendCall(op, err)

	var zero T
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func (b *BreakerBackend) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	return call(b, "login", func() (ports.LoginResult, error) { return b.next.Login(ctx, creds) })
}

func (b *BreakerBackend) Logout(ctx context.Context) error {
	_, err := call(b, "logout", func() (struct{}, error) { return struct{}{}, b.next.Logout(ctx) })
	return err
}

func (b *BreakerBackend) Register(ctx context.Context, reg ports.Registration) (ports.RegistrationResult, error) {
	return call(b, "register", func() (ports.RegistrationResult, error) { return b.next.Register(ctx, reg) })
}

func (b *BreakerBackend) RefreshToken(ctx context.Context) (string, error) {
	return call(b, "refresh_token", func() (string, error) { return b.next.RefreshToken(ctx) })
}

func (b *BreakerBackend) GetCharacters(ctx context.Context) ([]ports.CharacterSummary, error) {
	return call(b, "get_characters", func() ([]ports.CharacterSummary, error) { return b.next.GetCharacters(ctx) })
}

func (b *BreakerBackend) SendMessage(ctx context.Context, req ports.ChatRequest) (ports.ChatReply, error) {
	return call(b, "send_message", func() (ports.ChatReply, error) { return b.next.SendMessage(ctx, req) })
}

func (b *BreakerBackend) GetChatHistory(ctx context.Context, userID, personaID string) ([]entities.Message, error) {
	return call(b, "get_chat_history", func() ([]entities.Message, error) {
		return b.next.GetChatHistory(ctx, userID, personaID)
	})
}

func (b *BreakerBackend) AnalyzeText(ctx context.Context, text string) (entities.EmotionReading, error) {
	return call(b, "analyze_text", func() (entities.EmotionReading, error) { return b.next.AnalyzeText(ctx, text) })
}

func (b *BreakerBackend) GetOverallReport(ctx context.Context, userID string) (ports.OverallReport, error) {
	return call(b, "overall_report", func() (ports.OverallReport, error) { return b.next.GetOverallReport(ctx, userID) })
}

func (b *BreakerBackend) GetEmotionTrend(ctx context.Context, userID, period string) ([]ports.EmotionTrendPoint, error) {
	return call(b, "emotion_trend", func() ([]ports.EmotionTrendPoint, error) {
		return b.next.GetEmotionTrend(ctx, userID, period)
	})
}

func (b *BreakerBackend) GetEmotionDistribution(ctx context.Context, userID string) ([]ports.DistributionSlice, error) {
	return call(b, "emotion_distribution", func() ([]ports.DistributionSlice, error) {
		return b.next.GetEmotionDistribution(ctx, userID)
	})
}

func (b *BreakerBackend) GetMemoryCategoryAnalysis(ctx context.Context, userID string) ([]ports.CategoryAnalysis, error) {
	return call(b, "memory_categories", func() ([]ports.CategoryAnalysis, error) {
		return b.next.GetMemoryCategoryAnalysis(ctx, userID)
	})
}

func (b *BreakerBackend) GetCharacterInteraction(ctx context.Context, userID string) ([]ports.CharacterInteraction, error) {
	return call(b, "character_interaction", func() ([]ports.CharacterInteraction, error) {
		return b.next.GetCharacterInteraction(ctx, userID)
	})
}

func (b *BreakerBackend) GetPADTrend(ctx context.Context, userID, period string) ([]entities.PADPoint, error) {
	return call(b, "pad_trend", func() ([]entities.PADPoint, error) { return b.next.GetPADTrend(ctx, userID, period) })
}
