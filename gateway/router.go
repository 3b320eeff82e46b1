package gateway

import (
	"context"
	"errors"

	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/logger"
	"github.com/kbukum/sessionkit/observability"
)

// Router fans events out to the channels bound to a session. It takes a
// snapshot of the recipients, encodes once and delivers without holding any
// gateway lock.
type Router struct {
	members func(sessionID string) []Channel
	drop    func(ch Channel, cause error)
	metrics *observability.SessionMetrics
	log     *logger.Logger
}

// NewRouter builds a router over a membership lookup. drop is called for every
// channel whose delivery failed; it may be nil.
func NewRouter(members func(sessionID string) []Channel, drop func(Channel, error), metrics *observability.SessionMetrics, log *logger.Logger) *Router {
	if log == nil {
		log = logger.WithComponent("router")
	}
	return &Router{members: members, drop: drop, metrics: metrics, log: log}
}

// Emit delivers ev to every channel of sessionID except the one whose id is
// exclude, and returns the number of successful deliveries. A failed delivery
// does not stop the others.
func (r *Router) Emit(ctx context.Context, sessionID string, ev event.Event, exclude string) int {
	recipients := r.members(sessionID)
	if len(recipients) == 0 {
		return 0
	}
	frame, err := encode(ev)
	if err != nil {
		r.log.Error("encode failed", logger.ErrorFields("emit", err))
		return 0
	}

	delivered := 0
	var failed []Channel
	var causes []error
	for _, ch := range recipients {
		if ch.ID() == exclude {
			continue
		}
		if err := ch.Send(frame); err != nil {
			failed = append(failed, ch)
			causes = append(causes, err)
			continue
		}
		delivered++
	}
	r.metrics.EventRelayed(ctx, string(ev.Type()), delivered)
	for i, ch := range failed {
		r.fail(ctx, ch, causes[i])
	}
	return delivered
}

// Send delivers ev to a single channel with the same failure handling as Emit.
func (r *Router) Send(ctx context.Context, ch Channel, ev event.Event) error {
	frame, err := encode(ev)
	if err != nil {
		return err
	}
	if err := ch.Send(frame); err != nil {
		r.fail(ctx, ch, err)
		return err
	}
	r.metrics.EventRelayed(ctx, string(ev.Type()), 1)
	return nil
}

func (r *Router) fail(ctx context.Context, ch Channel, cause error) {
	reason := "closed"
	if errors.Is(cause, ErrChannelFull) {
		reason = "full"
	}
	r.metrics.DeliveryFailed(ctx, reason)
	r.log.Warn("delivery failed, dropping channel", map[string]interface{}{
		logger.FieldChannelID: ch.ID(),
		"reason":              reason,
	})
	if r.drop != nil {
		r.drop(ch, cause)
	}
}

func encode(ev event.Event) (Frame, error) {
	data, err := event.Encode(ev)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: ev.Type(), Data: data}, nil
}
