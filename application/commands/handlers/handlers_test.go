package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/services"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/mockbackend"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/kv"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/memory"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"
)

type countingRecorder struct {
	created map[string]int
	deleted map[string]int
}

func (r *countingRecorder) EntityCreated(kind string)        { r.created[kind]++ }
func (r *countingRecorder) EntityDeleted(kind string, n int) { r.deleted[kind] += n }

type staticIssuer struct{}

func (staticIssuer) GenerateToken(user entities.Identity) (string, error) {
	return "signed-" + user.ID, nil
}

type harness struct {
	bus      *bus.CommandBus
	store    *memory.EntityStore
	session  *services.SessionService
	emotions *services.EmotionService
	metrics  *countingRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()
	ctx := context.Background()

	h := &harness{
		bus:     bus.NewCommandBus(),
		store:   memory.NewEntityStore(),
		metrics: &countingRecorder{created: map[string]int{}, deleted: map[string]int{}},
	}
	backend := mockbackend.New(mockbackend.NoDelays(), random.Fixed{F: 0.5}, logger)
	h.session = services.NewSessionService(ctx, kv.NewMemoryStore(), services.DefaultSessionKey, logger)
	h.emotions = services.NewEmotionService(
		memory.NewBoundedLog[entities.EmotionReading](1000),
		memory.NewBoundedLog[entities.PADPoint](500),
		logger,
	)
	conversation := services.NewConversationService(memory.NewConversationLog(0), h.store, backend, h.emotions, random.Fixed{}, logger)

	set := Set{
		Characters:    NewCharacterHandler(h.store, h.metrics, logger),
		Relationships: NewRelationshipHandler(h.store, h.metrics, logger),
		Memories:      NewMemoryHandler(h.store, h.metrics, logger),
		Reset:         NewResetStoreHandler(h.store, logger),
		Session:       NewSessionHandler(backend, h.session, staticIssuer{}, logger),
		Chat:          NewChatHandler(conversation, logger),
		Emotion:       NewEmotionHandler(backend, h.store, h.emotions, logger),
	}
	require.NoError(t, set.Register(h.bus))
	return h
}

func (h *harness) send(t *testing.T, cmd bus.Command) interface{} {
	t.Helper()
	out, err := h.bus.Send(context.Background(), cmd)
	require.NoError(t, err)
	return out
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	h := newHarness(t)

	err := Set{Characters: NewCharacterHandler(h.store, nil, zap.NewNop())}.Register(h.bus)

	assert.Error(t, err)
}

func TestCharacterLifecycle_ThroughBus(t *testing.T) {
	// Arrange
	h := newHarness(t)
	created := h.send(t, commands.CreateCharacterCommand{Draft: entities.CharacterDraft{
		Name:          "小明",
		Talkativeness: 6,
	}}).(entities.Character)
	h.send(t, commands.CreateRelationshipCommand{Draft: entities.RelationshipDraft{
		FromID: created.ID, ToID: "user_patient_001", Type: "朋友", Strength: 8,
	}})
	h.send(t, commands.CreateMemoryCommand{Draft: entities.MemoryDraft{
		CharacterID: created.ID, Content: "一起去公园", Importance: 7, Type: valueobjects.MemoryHappy,
	}})

	// Act
	name := "小明明"
	updated := h.send(t, commands.UpdateCharacterCommand{ID: created.ID, Patch: entities.CharacterPatch{Name: &name}}).(commands.UpdateResult)
	deleted := h.send(t, commands.DeleteCharacterCommand{ID: created.ID}).(commands.DeleteResult)

	// Assert
	assert.True(t, updated.Found)
	assert.Equal(t, "小明明", updated.Record.(entities.Character).Name)
	require.True(t, deleted.Found)
	assert.Len(t, deleted.Cascade.RelationshipIDs, 1)
	assert.Len(t, deleted.Cascade.MemoryIDs, 1)
	assert.Equal(t, ports.StoreCounts{}, h.store.Counts())
	assert.Equal(t, 1, h.metrics.created["character"])
	assert.Equal(t, 1, h.metrics.deleted["memory"])
}

func TestUnknownIDs_AreReportedNotFound(t *testing.T) {
	h := newHarness(t)

	for _, cmd := range []bus.Command{
		commands.DeleteCharacterCommand{ID: "char_x"},
		commands.DeleteRelationshipCommand{ID: "rel_x"},
		commands.DeleteMemoryCommand{ID: "mem_x"},
	} {
		assert.False(t, h.send(t, cmd).(commands.DeleteResult).Found)
	}
	strength := 3
	res := h.send(t, commands.UpdateRelationshipCommand{ID: "rel_x", Patch: entities.RelationshipPatch{Strength: &strength}})
	assert.False(t, res.(commands.UpdateResult).Found)
}

func TestValidationErrors_AreAppErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.bus.Send(context.Background(), commands.CreateCharacterCommand{Draft: entities.CharacterDraft{Talkativeness: 11}})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateCharacter_ValidatesLikeCreate(t *testing.T) {
	h := newHarness(t)
	created := h.send(t, commands.CreateCharacterCommand{Draft: entities.CharacterDraft{
		Name: "小明", Talkativeness: 6,
	}}).(entities.Character)

	unknownTag := entities.Emotions{"bored": {"打哈欠"}}
	longMBTI := "INTJX"
	for name, patch := range map[string]entities.CharacterPatch{
		"emotion outside the tag set": {Emotions: &unknownTag},
		"mbti not four letters":       {MBTIType: &longMBTI},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.bus.Send(context.Background(), commands.UpdateCharacterCommand{ID: created.ID, Patch: patch})

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	stored, ok := h.store.Character(created.ID)
	require.True(t, ok)
	assert.Empty(t, stored.Emotions)
	assert.Empty(t, stored.MBTIType)

	known := entities.Emotions{valueobjects.EmotionHappy: {"哈哈"}}
	res := h.send(t, commands.UpdateCharacterCommand{ID: created.ID, Patch: entities.CharacterPatch{Emotions: &known}})
	assert.True(t, res.(commands.UpdateResult).Found)
}

func TestLogin_IssuesTokenAndOpensSession(t *testing.T) {
	// Arrange
	h := newHarness(t)

	// Act
	res := h.send(t, commands.LoginCommand{Credentials: ports.Credentials{Username: "admin001", Password: "123456"}}).(ports.LoginResult)

	// Assert
	assert.Equal(t, valueobjects.RoleAdmin, res.User.Role)
	assert.Equal(t, "signed-user_admin_001", res.Token)
	assert.Equal(t, services.SessionAuthenticated, h.session.State())

	h.send(t, commands.LogoutCommand{TokenID: "jti-admin", ExpiresAt: time.Now().Add(time.Hour)})
	assert.Equal(t, services.SessionAnonymous, h.session.State())
	assert.True(t, h.session.IsRevoked("jti-admin"))
}

func TestLogin_WrongUsernameIsUnauthorized(t *testing.T) {
	h := newHarness(t)

	_, err := h.bus.Send(context.Background(), commands.LoginCommand{Credentials: ports.Credentials{Username: "patient001425", Password: "123456"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, services.SessionAnonymous, h.session.State())
}

func TestRegisterAndRefresh(t *testing.T) {
	h := newHarness(t)

	reg := h.send(t, commands.RegisterCommand{Registration: ports.Registration{Username: "newbie", Password: "secret1"}}).(ports.RegistrationResult)
	token := h.send(t, commands.RefreshTokenCommand{User: entities.Identity{ID: "u1"}}).(string)

	assert.Contains(t, reg.UserID, "new_user_")
	assert.Equal(t, "signed-u1", token)
}

func TestChatCommands(t *testing.T) {
	// Arrange
	h := newHarness(t)
	user := entities.Identity{ID: "user_patient_001", Role: valueobjects.RolePatient}

	// Act
	persona := h.send(t, commands.SwitchPersonaCommand{User: user, PersonaID: "char_002"}).(entities.Persona)
	res := h.send(t, commands.SendMessageCommand{User: user, Content: "今天很开心"}).(services.SendResult)

	// Assert
	assert.Equal(t, "老王", persona.Name)
	assert.Equal(t, "您好，我是老王，很高兴与您交流。您刚才说的是：今天很开心", res.Reply.Content)
	assert.Equal(t, valueobjects.SentimentPositive, h.emotions.Current().Type)

	_, err := h.bus.Send(context.Background(), commands.SwitchPersonaCommand{User: user, PersonaID: "char_404"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.bus.Send(context.Background(), commands.SendMessageCommand{User: user, Content: "  "})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEmotionCommands(t *testing.T) {
	h := newHarness(t)
	mem := h.send(t, commands.CreateMemoryCommand{Draft: entities.MemoryDraft{
		Content: "毕业典礼", Importance: 9, Type: valueobjects.MemoryImportant,
	}}).(entities.Memory)

	reading := h.send(t, commands.AnalyzeTextCommand{Text: "我很开心开心"}).(entities.EmotionReading)
	assert.Equal(t, valueobjects.SentimentPositive, reading.Type)
	assert.InDelta(t, 0.9, reading.Intensity, 1e-9)

	classes := h.send(t, commands.ClassifyMemoryCommand{MemoryID: mem.ID, Classification: valueobjects.SentimentPositive}).(services.MemoryClassification)
	assert.Len(t, classes.Positive, 1)

	_, err := h.bus.Send(context.Background(), commands.ClassifyMemoryCommand{MemoryID: "mem_x", Classification: valueobjects.SentimentPositive})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.bus.Send(context.Background(), commands.AddPADPointCommand{Point: entities.PADPoint{Pleasure: 2}})
	assert.True(t, apperrors.IsValidation(err))

	h.send(t, commands.ClearEmotionHistoryCommand{})
	assert.Empty(t, h.emotions.History())
}
