// Package mockbackend simulates the remote service with canned data and artificial latency.
package mockbackend

import (
	"context"
	"fmt"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"

	"go.uber.org/zap"
)

// Delays is the artificial latency per call family
type Delays struct {
	Auth    time.Duration
	Logout  time.Duration
	Chat    time.Duration
	Default time.Duration
}

// DefaultDelays mirrors the latency the dashboard was built against
func DefaultDelays() Delays {
	return Delays{
		Auth:    500 * time.Millisecond,
		Logout:  200 * time.Millisecond,
		Chat:    800 * time.Millisecond,
		Default: 500 * time.Millisecond,
	}
}

// NoDelays disables latency
func NoDelays() Delays {
	return Delays{}
}

type account struct {
	password string
	identity entities.Identity
	token    string
}

// Backend implements ports.Backend without any network
type Backend struct {
	delays     Delays
	rng        random.Source
	clock      func() time.Time
	logger     *zap.Logger
	accounts   map[string]account
	characters []ports.CharacterSummary
}

// Option customises a Backend
type Option func(*Backend)

// WithClock replaces time.Now
func WithClock(clock func() time.Time) Option {
	return func(b *Backend) { b.clock = clock }
}

// New creates a mock backend
func New(delays Delays, rng random.Source, logger *zap.Logger, opts ...Option) *Backend {
	b := &Backend{
		delays:     delays,
		rng:        rng,
		clock:      time.Now,
		logger:     logger,
		accounts:   demoAccounts(),
		characters: demoCharacters(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ ports.Backend = (*Backend)(nil)

func demoAccounts() map[string]account {
	return map[string]account{
		"patient001": {
			password: "123456",
			token:    "mock_patient_token",
			identity: entities.Identity{
				ID:       "user_patient_001",
				Username: "patient001",
				Name:     "张三",
				Role:     valueobjects.RolePatient,
				Email:    "patient@example.com",
				Avatar:   "https://api.dicebear.com/7.x/adventurer/svg?seed=patient001",
			},
		},
		"admin001": {
			password: "123456",
			token:    "mock_admin_token",
			identity: entities.Identity{
				ID:       "user_admin_001",
				Username: "admin001",
				Name:     "李医生",
				Role:     valueobjects.RoleAdmin,
				Email:    "admin@example.com",
				Avatar:   "https://api.dicebear.com/7.x/adventurer/svg?seed=admin001",
			},
		},
	}
}

func demoCharacters() []ports.CharacterSummary {
	return []ports.CharacterSummary{
		{
			ID:          "char_001",
			Name:        "小慧",
			Avatar:      "https://api.dicebear.com/7.x/adventurer/svg?seed=xiaohui",
			Description: "一个活泼开朗的AI伙伴，善于倾听和鼓励。",
		},
		{
			ID:          "char_002",
			Name:        "老王",
			Avatar:      "https://api.dicebear.com/7.x/adventurer/svg?seed=laowang",
			Description: "一位经验丰富的老者，充满智慧和人生阅历。",
		},
	}
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Login matches the two demo credential pairs exactly
func (b *Backend) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	if err := wait(ctx, b.delays.Auth); err != nil {
		return ports.LoginResult{}, err
	}

	acct, ok := b.accounts[creds.Username]
	if !ok || acct.password != creds.Password {
		b.logger.Debug("Mock login rejected", zap.String("username", creds.Username))
		return ports.LoginResult{}, ports.ErrInvalidCredentials
	}
	return ports.LoginResult{User: acct.identity, Token: acct.token}, nil
}

func (b *Backend) Logout(ctx context.Context) error {
	return wait(ctx, b.delays.Logout)
}

// Register always succeeds; the account is not added to the login table
func (b *Backend) Register(ctx context.Context, reg ports.Registration) (ports.RegistrationResult, error) {
	if err := wait(ctx, b.delays.Auth); err != nil {
		return ports.RegistrationResult{}, err
	}
	return ports.RegistrationResult{
		Message: "注册成功",
		UserID:  fmt.Sprintf("new_user_%d", b.clock().UnixMilli()),
	}, nil
}

func (b *Backend) RefreshToken(ctx context.Context) (string, error) {
	if err := wait(ctx, b.delays.Auth); err != nil {
		return "", err
	}
	return "new_mock_token", nil
}

func (b *Backend) GetCharacters(ctx context.Context) ([]ports.CharacterSummary, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	out := make([]ports.CharacterSummary, len(b.characters))
	copy(out, b.characters)
	return out, nil
}

// SendMessage echoes the user's words back in the persona's voice
func (b *Backend) SendMessage(ctx context.Context, req ports.ChatRequest) (ports.ChatReply, error) {
	if err := wait(ctx, b.delays.Chat); err != nil {
		return ports.ChatReply{}, err
	}

	now := b.clock()
	return ports.ChatReply{
		AIResponse: &ports.AIResponse{
			ID:        fmt.Sprintf("msg_%d", now.UnixMilli()+1),
			Content:   fmt.Sprintf("您好，我是%s，很高兴与您交流。您刚才说的是：%s", b.personaName(req.CharacterID), req.Content),
			PersonaID: req.CharacterID,
			Timestamp: now,
		},
	}, nil
}

// personaName resolves a demo persona; any other id speaks as the last demo persona
func (b *Backend) personaName(id string) string {
	for _, c := range b.characters {
		if c.ID == id {
			return c.Name
		}
	}
	return b.characters[len(b.characters)-1].Name
}

// GetChatHistory has no server-side history to return
func (b *Backend) GetChatHistory(ctx context.Context, userID, personaID string) ([]entities.Message, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	return []entities.Message{}, nil
}

func (b *Backend) AnalyzeText(ctx context.Context, text string) (entities.EmotionReading, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return entities.EmotionReading{}, err
	}
	reading := AnalyzeText(text, b.rng)
	reading.Timestamp = b.clock()
	return reading, nil
}
