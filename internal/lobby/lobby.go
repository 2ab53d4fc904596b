// Package lobby runs one goroutine per lobby. Every mutation flows
// through the actor's inbox, so there is never more than one in-flight
// change per lobby even when button clicks race.
package lobby

import (
	"context"

	"github.com/google/uuid"

	"github.com/wfclan/generals-lfg-bot/internal/engine"
)

type Msg interface{ isLobbyMsg() }

// Interact asks the actor to apply one engine command and reports the
// outcome on Reply.
type Interact struct {
	Cmd   engine.Command
	Reply chan Result
}

func (Interact) isLobbyMsg() {}

// BindMessage records the announcement message this lobby renders to.
// It is sent once, right after the announcement is posted.
type BindMessage struct {
	MessageID string
}

func (BindMessage) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type Result struct {
	Events []engine.Event
	State  engine.State
	Err    error
}

// View is a race-free copy of the actor's state for renders, the ops
// API, and tests.
type View struct {
	ID        uuid.UUID
	MessageID string
	Version   int
	State     engine.State
}

type Lobby struct {
	id        uuid.UUID
	inbox     chan Msg
	state     engine.State
	messageID string
	version   int
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewLobby(parent context.Context, initial engine.State) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		id:     uuid.New(),
		inbox:  make(chan Msg, 16),
		state:  initial,
		ctx:    ctx,
		cancel: cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) ID() uuid.UUID { return l.id }

// Inbox is how the bot layer and tests talk to the actor.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Interact:
				events, newState, err := engine.Apply(l.state, msg.Cmd)
				if err == nil {
					l.state = newState
					l.version++
				}
				msg.Reply <- Result{Events: events, State: l.state, Err: err}

			case BindMessage:
				l.messageID = msg.MessageID

			case GetState:
				msg.Reply <- View{
					ID:        l.id,
					MessageID: l.messageID,
					Version:   l.version,
					State:     l.state,
				}

			case Shutdown:
				l.cancel()
				return
			}
		}
	}
}
