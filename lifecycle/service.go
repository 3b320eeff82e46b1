package lifecycle

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/gateway"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/observability"
	"github.com/kbukum/sessionkit/session"
)

// Created is the result of Create.
type Created struct {
	SessionID string `json:"sessionId"`
}

// Verified is the result of Verify.
type Verified struct {
	SessionID         string `json:"sessionId"`
	ParticipantsCount int    `json:"participantsCount"`
}

// Roster is the result of Roster.
type Roster struct {
	Count        int            `json:"count"`
	Participants []event.Member `json:"participants"`
}

const (
	opCreate = "create"
	opVerify = "verify"
	opRoster = "roster"

	statusOK       = "ok"
	statusNotFound = "not_found"
)

// Service answers lifecycle requests from the registry.
type Service struct {
	reg     *session.Registry
	metrics *observability.SessionMetrics
	log     *logger.Logger
}

// NewService creates a lifecycle service. metrics may be nil.
func NewService(reg *session.Registry, metrics *observability.SessionMetrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.WithComponent("lifecycle")
	}
	return &Service{reg: reg, metrics: metrics, log: log}
}

// Create allocates a new, empty session.
func (s *Service) Create(ctx context.Context) (Created, error) {
	ctx, span := observability.StartSpan(ctx, "lifecycle.create",
		attribute.String(observability.AttrOperation, opCreate))
	id := s.reg.Create()
	span.SetAttributes(attribute.String(observability.AttrSessionID, id))
	observability.EndSpan(span, nil)

	s.metrics.SessionCreated(ctx)
	s.metrics.LifecycleOp(ctx, opCreate, statusOK)
	return Created{SessionID: id}, nil
}

// Verify reports whether id names an existing session and how many
// participants it currently has.
func (s *Service) Verify(ctx context.Context, id string) (v Verified, err error) {
	ctx, span := s.start(ctx, opVerify, id)
	defer func() { s.finish(ctx, span, opVerify, err) }()

	roster, err := s.reg.Snapshot(id)
	if err != nil {
		return Verified{}, err
	}
	return Verified{SessionID: session.NormalizeID(id), ParticipantsCount: len(roster)}, nil
}

// Roster returns the current participants of id in join order.
func (s *Service) Roster(ctx context.Context, id string) (r Roster, err error) {
	ctx, span := s.start(ctx, opRoster, id)
	defer func() { s.finish(ctx, span, opRoster, err) }()

	roster, err := s.reg.Snapshot(id)
	if err != nil {
		return Roster{}, err
	}
	return Roster{Count: len(roster), Participants: gateway.Members(roster)}, nil
}
