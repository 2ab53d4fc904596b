// Package hub owns the registry of live lobbies. Lobbies are keyed by
// their own id, with a side index from announcement message id, so a
// deleted and recreated message can never orphan a lobby.
package hub

import (
	"context"

	"github.com/google/uuid"

	"github.com/wfclan/generals-lfg-bot/internal/engine"
	"github.com/wfclan/generals-lfg-bot/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	State engine.State
	Reply chan *lobby.Lobby
}

// BindMessage links an announcement message to its lobby and forwards
// the binding to the actor.
type BindMessage struct {
	ID        uuid.UUID
	MessageID string
}

// GetByMessage resolves the lobby behind a clicked message. Reply may
// carry nil when the message belongs to no live lobby.
type GetByMessage struct {
	MessageID string
	Reply     chan *lobby.Lobby
}

type ListLobbies struct {
	Reply chan []*lobby.Lobby
}

type RemoveLobby struct {
	ID uuid.UUID
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg()  {}
func (BindMessage) isHubMsg()  {}
func (GetByMessage) isHubMsg() {}
func (ListLobbies) isHubMsg()  {}
func (RemoveLobby) isHubMsg()  {}
func (ShutdownHub) isHubMsg()  {}

type Hub struct {
	inbox     chan HubMsg
	lobbies   map[uuid.UUID]*lobby.Lobby
	byMessage map[string]uuid.UUID
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		lobbies:   make(map[uuid.UUID]*lobby.Lobby),
		byMessage: make(map[string]uuid.UUID),
		ctx:       ctx,
		cancel:    cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				lb := lobby.NewLobby(h.ctx, msg.State)
				h.lobbies[lb.ID()] = lb
				msg.Reply <- lb

			case BindMessage:
				lb := h.lobbies[msg.ID]
				if lb == nil {
					break
				}
				h.byMessage[msg.MessageID] = msg.ID
				lb.Inbox() <- lobby.BindMessage{MessageID: msg.MessageID}

			case GetByMessage:
				if id, ok := h.byMessage[msg.MessageID]; ok {
					msg.Reply <- h.lobbies[id]
					break
				}
				msg.Reply <- nil

			case ListLobbies:
				out := make([]*lobby.Lobby, 0, len(h.lobbies))
				for _, lb := range h.lobbies {
					out = append(out, lb)
				}
				msg.Reply <- out

			case RemoveLobby:
				lb := h.lobbies[msg.ID]
				if lb == nil {
					break
				}
				lb.Inbox() <- lobby.Shutdown{}
				delete(h.lobbies, msg.ID)
				for mid, id := range h.byMessage {
					if id == msg.ID {
						delete(h.byMessage, mid)
					}
				}

			case ShutdownHub:
				for _, lb := range h.lobbies {
					lb.Inbox() <- lobby.Shutdown{}
				}
				clear(h.lobbies)
				clear(h.byMessage)
				h.cancel()
			}
		}
	}
}
