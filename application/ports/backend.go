package ports

import (
	"context"
	"errors"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// ErrInvalidCredentials is returned by Backend.Login on any credential mismatch
var ErrInvalidCredentials = errors.New("用户名或密码错误")

// Credentials submitted at login
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the identity and token granted by a successful login
type LoginResult struct {
	User  entities.Identity `json:"user"`
	Token string            `json:"token"`
}

// Registration is a sign-up request
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty"`
}

// RegistrationResult acknowledges a sign-up
type RegistrationResult struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// CharacterSummary is the short persona card returned by the backend
type CharacterSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
}

// ChatRequest is one user utterance sent for a reply
type ChatRequest struct {
	UserID      string `json:"userId"`
	CharacterID string `json:"characterId"`
	Content     string `json:"content"`
	Sender      string `json:"sender"`
}

// AIResponse is the generated reply
type AIResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PersonaID string    `json:"personaId"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatReply wraps the reply; AIResponse is nil when the backend produced none
type ChatReply struct {
	AIResponse *AIResponse `json:"aiResponse,omitempty"`
}

// OverallReport is the headline summary
type OverallReport struct {
	TotalInteractions    int     `json:"totalInteractions"`
	AvgEmotionScore      float64 `json:"avgEmotionScore"`
	PositiveEmotionRatio float64 `json:"positiveEmotionRatio"`
	CognitiveImprovement float64 `json:"cognitiveImprovement"`
}

// EmotionTrendPoint is one day of sentiment counts
type EmotionTrendPoint struct {
	Date     string `json:"date"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// DistributionSlice is one wedge of the sentiment distribution
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CategoryAnalysis is the sentiment split of one memory category
type CategoryAnalysis struct {
	Category string `json:"category"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// CharacterInteraction summarises how much a persona was used
type CharacterInteraction struct {
	Name         string  `json:"name"`
	Interactions int     `json:"interactions"`
	Satisfaction float64 `json:"satisfaction"`
}

// Backend is the remote service the dashboard talks to. Every call may
// block for a simulated or real network delay and honours ctx.
type Backend interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg Registration) (RegistrationResult, error)
	RefreshToken(ctx context.Context) (string, error)

	GetCharacters(ctx context.Context) ([]CharacterSummary, error)

	SendMessage(ctx context.Context, req ChatRequest) (ChatReply, error)
	GetChatHistory(ctx context.Context, userID, personaID string) ([]entities.Message, error)

	AnalyzeText(ctx context.Context, text string) (entities.EmotionReading, error)

	GetOverallReport(ctx context.Context, userID string) (OverallReport, error)
	GetEmotionTrend(ctx context.Context, userID, period string) ([]EmotionTrendPoint, error)
	GetEmotionDistribution(ctx context.Context, userID string) ([]DistributionSlice, error)
	GetMemoryCategoryAnalysis(ctx context.Context, userID string) ([]CategoryAnalysis, error)
	GetCharacterInteraction(ctx context.Context, userID string) ([]CharacterInteraction, error)
	GetPADTrend(ctx context.Context, userID, period string) ([]entities.PADPoint, error)
}
