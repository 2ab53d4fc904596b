// Package retention keeps the channel clean: every ordinary message is
// deleted a fixed delay after it appears, the panel and pinned
// messages excepted. Timers are fire-and-forget and die with the
// process; that durability gap is accepted.
package retention

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wfclan/generals-lfg-bot/internal/platform"
	"github.com/wfclan/generals-lfg-bot/internal/types"
)

// DefaultDelay matches the original channel-hygiene window.
const DefaultDelay = 15 * time.Minute

// Clock is injected so tests expire timers without waiting.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func NewClock() Clock { return realClock{} }

// Store is the slice of the platform API the policy needs.
type Store interface {
	GetMessage(ctx context.Context, channelID, messageID string) (platform.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

type Policy struct {
	store Store
	state *types.RuntimeState
	clock Clock
	delay time.Duration
	log   *zap.Logger
}

func NewPolicy(store Store, state *types.RuntimeState, clock Clock, delay time.Duration, log *zap.Logger) *Policy {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Policy{store: store, state: state, clock: clock, delay: delay, log: log}
}

// Observe schedules msg for deferred deletion unless it is the panel.
func (p *Policy) Observe(msg platform.Message) {
	if p.state.IsPanelMessage(msg.ID) {
		return
	}
	go p.expire(msg)
}

func (p *Policy) expire(msg platform.Message) {
	<-p.clock.After(p.delay)

	// The panel may have been reassigned to this message after it was
	// scheduled, so the exemption is checked again here.
	if p.state.IsPanelMessage(msg.ID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	current, err := p.store.GetMessage(ctx, msg.ChannelID, msg.ID)
	switch {
	case errors.Is(err, platform.ErrNotFound):
		// Already gone, nothing to do.
		return
	case err == nil && current.Pinned:
		return
	}

	err = p.store.DeleteMessage(ctx, msg.ChannelID, msg.ID)
	switch {
	case err == nil:
	case errors.Is(err, platform.ErrNotFound), errors.Is(err, platform.ErrForbidden):
		// Deleted by someone else, or we lack the permission. Either
		// way the sweep moves on.
	default:
		p.log.Warn("deferred delete failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
}
