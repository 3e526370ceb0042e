package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	cmdhandlers "github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/handlers"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	queryhandlers "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/handlers"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/services"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/mockbackend"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/kv"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/memory"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/observability"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"
)

type testServer struct {
	handler http.Handler
	store   *memory.EntityStore
	log     *memory.ConversationLog
	session *services.SessionService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, kv.NewMemoryStore(), Options{EnableMetrics: true, LoginPerMinute: 100})
}

func newTestServerWith(t *testing.T, sessionStore ports.KeyValueStore, opts Options) *testServer {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewEntityStore()
	convLog := memory.NewConversationLog(0)
	backend := mockbackend.New(mockbackend.NoDelays(), random.New(42), logger)
	emotions := services.NewEmotionService(
		memory.NewBoundedLog[entities.EmotionReading](1000),
		memory.NewBoundedLog[entities.PADPoint](500),
		logger,
	)
	session := services.NewSessionService(context.Background(), sessionStore, services.DefaultSessionKey, logger)
	conversation := services.NewConversationService(convLog, store, backend, emotions, random.Fixed{}, logger)
	jwt, err := auth.NewJWTManager(auth.JWTConfig{SecretKey: "test-secret", Issuer: "ris-test", ExpiryTime: time.Hour})
	require.NoError(t, err)
	collector := observability.NewCollector("ris_test")

	commandBus := bus.NewCommandBus()
	require.NoError(t, cmdhandlers.Set{
		Characters:    cmdhandlers.NewCharacterHandler(store, collector, logger),
		Relationships: cmdhandlers.NewRelationshipHandler(store, collector, logger),
		Memories:      cmdhandlers.NewMemoryHandler(store, collector, logger),
		Reset:         cmdhandlers.NewResetStoreHandler(store, logger),
		Session:       cmdhandlers.NewSessionHandler(backend, session, jwt, logger),
		Chat:          cmdhandlers.NewChatHandler(conversation, logger),
		Emotion:       cmdhandlers.NewEmotionHandler(backend, store, emotions, logger),
	}.Register(commandBus))

	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.Set{
		Entities:     queryhandlers.NewEntityQueryHandler(store, logger),
		Conversation: queryhandlers.NewConversationQueryHandler(conversation, convLog, emotions, logger),
		Reports:      queryhandlers.NewReportQueryHandler(backend, logger),
		Admin:        queryhandlers.NewAdminQueryHandler(store, session, convLog, emotions),
	}.Register(queryBus))

	router := NewRouter(
		commandBus, queryBus, jwt, session,
		apperrors.NewErrorHandler(logger, false),
		collector, nil, nil, ports.SeedData{},
		opts,
		logger,
	)
	return &testServer{handler: router.Setup(), store: store, log: convLog, session: session}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": "123456"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res ports.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ris_test_http_requests_total")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("bad credentials", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "patient001", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me returns the token identity", func(t *testing.T) {
		token := s.login(t, "patient001")

		rec := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var me entities.Identity
		decodeBody(t, rec, &me)
		assert.Equal(t, "user_patient_001", me.ID)
	})

	t.Run("protected route without token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/characters", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCharacterLifecycle(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	token := s.login(t, "patient001")

	// Act: create
	rec := s.do(t, http.MethodPost, "/api/v1/characters", token, map[string]interface{}{
		"name": "小慧", "mbtiType": "ENFP", "talkativeness": 7, "isPublic": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entities.Character
	decodeBody(t, rec, &created)

	rec = s.do(t, http.MethodPost, "/api/v1/memories", token, map[string]interface{}{
		"characterId": created.ID, "content": "一起看海", "importance": 8, "type": "happy",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Assert: filters
	rec = s.do(t, http.MethodGet, "/api/v1/characters?search=小&mbtiType=ENFP", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []entities.Character
	decodeBody(t, rec, &list)
	assert.Len(t, list, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/memories?importance=9", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var none []map[string]interface{}
	decodeBody(t, rec, &none)
	assert.Empty(t, none)

	// Act: update and cascading delete
	rec = s.do(t, http.MethodPut, "/api/v1/characters/"+created.ID, token, map[string]interface{}{"name": "小慧2"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/characters/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.store.Memories())

	// Unknown ids are 404 at the boundary
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/characters/"+created.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/v1/memories/mem_missing", token, map[string]interface{}{"importance": 3}).Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "patient001")

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"importance out of range", http.MethodPost, "/api/v1/memories", map[string]interface{}{"content": "x", "importance": 11, "type": "happy"}},
		{"bad isPublic", http.MethodGet, "/api/v1/characters?isPublic=maybe", nil},
		{"bad date", http.MethodGet, "/api/v1/memories?start=yesterday", nil},
		{"blank chat message", http.MethodPost, "/api/v1/chat/messages", map[string]string{"content": "   "}},
		{"unknown report", http.MethodGet, "/api/v1/reports/weather", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, token, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestChatFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "patient001")

	rec := s.do(t, http.MethodPut, "/api/v1/chat/persona", token, map[string]string{"personaId": "char_002"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/chat/messages", token, map[string]string{"content": "今天很开心"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/emotion/current", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "今天很开心")

	rec = s.do(t, http.MethodDelete, "/api/v1/chat/messages", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.log.Messages())
}

func TestAdminRequiresRole(t *testing.T) {
	s := newTestServer(t)

	patient := s.login(t, "patient001")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/admin/overview", patient, nil).Code)

	admin := s.login(t, "admin001")
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/admin/overview", admin, nil).Code)
}

func TestAppNavigation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/app/chat", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app/login", rec.Header().Get("Location"))

	token := s.login(t, "patient001")
	rec = s.do(t, http.MethodGet, "/app/chat", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/app/admin", token, nil)
	assert.Equal(t, "/app/chat", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/app/unknown", token, nil).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	token := s.login(t, "patient001")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/app/chat", token, nil).Code)

	// Act
	rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)

	// Assert
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, services.SessionAnonymous, s.session.State())

	rec = s.do(t, http.MethodGet, "/app/chat", token, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app/login", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/api/v1/characters", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body apperrors.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Token has been revoked", body.Message)

	fresh := s.login(t, "patient001")
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/characters", fresh, nil).Code)
}

func TestLogoutSurvivesRestart(t *testing.T) {
	sessionStore := kv.NewMemoryStore()
	opts := Options{LoginPerMinute: 100}
	s := newTestServerWith(t, sessionStore, opts)
	token := s.login(t, "patient001")
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil).Code)

	restarted := newTestServerWith(t, sessionStore, opts)

	assert.Equal(t, http.StatusUnauthorized, restarted.do(t, http.MethodGet, "/api/v1/characters", token, nil).Code)
}

func TestAppNavigation_UsesSessionWithoutToken(t *testing.T) {
	sessionStore := kv.NewMemoryStore()
	opts := Options{LoginPerMinute: 100}
	s := newTestServerWith(t, sessionStore, opts)
	s.login(t, "admin001")

	// a restart restores the persisted session
	restarted := newTestServerWith(t, sessionStore, opts)
	rec := restarted.do(t, http.MethodGet, "/app/admin", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = restarted.do(t, http.MethodGet, "/app/login", "", nil)
	assert.Equal(t, "/app/chat", rec.Header().Get("Location"))

	require.NoError(t, restarted.session.Logout(context.Background()))
	rec = restarted.do(t, http.MethodGet, "/app/chat", "", nil)
	assert.Equal(t, "/app/login", rec.Header().Get("Location"))
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServerWith(t, kv.NewMemoryStore(), Options{LoginPerMinute: 2})
	attempt := func(forwardedFor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			bytes.NewBufferString(`{"username":"patient001","password":"nope"}`))
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, attempt("10.0.0.1").Code)
	assert.Equal(t, http.StatusUnauthorized, attempt("10.0.0.2").Code)

	// forwarding headers are ignored unless the proxy is trusted
	rec := attempt("10.0.0.3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	var body apperrors.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, string(apperrors.ErrorTypeRateLimit), body.Type)
}
