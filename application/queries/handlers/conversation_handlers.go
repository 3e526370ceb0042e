package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/services"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// ConversationQueryHandler answers chat and emotion reads
type ConversationQueryHandler struct {
	conversation *services.ConversationService
	log          ports.ConversationLog
	emotions     *services.EmotionService
	logger       *zap.Logger
}

// NewConversationQueryHandler creates a new conversation query handler
func NewConversationQueryHandler(
	conversation *services.ConversationService,
	log ports.ConversationLog,
	emotions *services.EmotionService,
	logger *zap.Logger,
) *ConversationQueryHandler {
	return &ConversationQueryHandler{
		conversation: conversation,
		log:          log,
		emotions:     emotions,
		logger:       logger,
	}
}

// Handle executes a conversation or emotion query
func (h *ConversationQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.ConversationQuery:
		view := queries.ConversationView{
			Messages: h.conversation.Messages(q.PersonaID),
			Typing:   h.conversation.Typing(),
		}
		if p, ok := h.log.CurrentPersona(); ok {
			view.CurrentPersona = &p
		}
		return view, nil
	case queries.ListPersonasQuery:
		return h.conversation.RefreshPersonas(ctx), nil
	case queries.EmotionStateQuery:
		return h.emotions.Snapshot(), nil
	case queries.EmotionHistoryQuery:
		return h.emotions.History(), nil
	}
	return nil, fmt.Errorf("unsupported query type %T", query)
}

// ReportQueryHandler fetches reports from the backend
type ReportQueryHandler struct {
	backend ports.Backend
	logger  *zap.Logger
}

// NewReportQueryHandler creates a new report handler
func NewReportQueryHandler(backend ports.Backend, logger *zap.Logger) *ReportQueryHandler {
	return &ReportQueryHandler{backend: backend, logger: logger}
}

// Handle executes ReportQuery
func (h *ReportQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ReportQuery)
	if !ok {
		return nil, fmt.Errorf("unsupported query type %T", query)
	}
	period := q.Period
	if period == "" {
		period = "week"
	}

	var (
		out interface{}
		err error
	)
	switch q.Kind {
	case queries.ReportOverview:
		out, err = h.backend.GetOverallReport(ctx, q.UserID)
	case queries.ReportTrend:
		out, err = h.backend.GetEmotionTrend(ctx, q.UserID, period)
	case queries.ReportDistribution:
		out, err = h.backend.GetEmotionDistribution(ctx, q.UserID)
	case queries.ReportCategories:
		out, err = h.backend.GetMemoryCategoryAnalysis(ctx, q.UserID)
	case queries.ReportInteractions:
		out, err = h.backend.GetCharacterInteraction(ctx, q.UserID)
	case queries.ReportPAD:
		out, err = h.backend.GetPADTrend(ctx, q.UserID, period)
	}
	if err != nil {
		h.logger.Warn("Report fetch failed", zap.String("kind", string(q.Kind)), zap.Error(err))
		return nil, apperrors.NewExternalError("backend", err)
	}
	return out, nil
}

// AdminQueryHandler builds the admin overview
type AdminQueryHandler struct {
	store    ports.EntityStore
	session  *services.SessionService
	log      ports.ConversationLog
	emotions *services.EmotionService
}

// NewAdminQueryHandler creates a new admin handler
func NewAdminQueryHandler(store ports.EntityStore, session *services.SessionService, log ports.ConversationLog, emotions *services.EmotionService) *AdminQueryHandler {
	return &AdminQueryHandler{store: store, session: session, log: log, emotions: emotions}
}

// Handle executes AdminOverviewQuery
func (h *AdminQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(queries.AdminOverviewQuery); !ok {
		return nil, fmt.Errorf("unsupported query type %T", query)
	}
	overview := queries.AdminOverview{
		Store:          h.store.Counts(),
		SessionState:   string(h.session.State()),
		Messages:       len(h.log.Messages()),
		EmotionHistory: len(h.emotions.History()),
	}
	if user, ok := h.session.Current(); ok {
		overview.SessionUser = &user
	}
	return overview, nil
}
