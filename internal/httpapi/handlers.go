package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wfclan/generals-lfg-bot/internal/engine"
	"github.com/wfclan/generals-lfg-bot/internal/hub"
	"github.com/wfclan/generals-lfg-bot/internal/lobby"
)

type lobbyView struct {
	ID         string   `json:"id"`
	MessageID  string   `json:"message_id,omitempty"`
	GameType   string   `json:"game_type"`
	RadminVBN  string   `json:"radmin_vbn"`
	MaxPlayers int      `json:"max_players"`
	SlotsLeft  int      `json:"slots_left"`
	Players    []string `json:"players"`
	Closed     bool     `json:"closed"`
	Version    int      `json:"version"`
}

func newLobbyView(v lobby.View) lobbyView {
	players := make([]string, 0, len(v.State.Members))
	for _, m := range v.State.Members {
		players = append(players, m.Name)
	}
	return lobbyView{
		ID:         v.ID.String(),
		MessageID:  v.MessageID,
		GameType:   v.State.GameType,
		RadminVBN:  v.State.RadminVBN,
		MaxPlayers: v.State.MaxPlayers,
		SlotsLeft:  engine.SlotsLeft(v.State),
		Players:    players,
		Closed:     v.State.Closed,
		Version:    v.Version,
	}
}

// ListLobbies reports every live lobby, mainly for operators poking at
// a running bot.
func ListLobbies(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listReply := make(chan []*lobby.Lobby, 1)
		h.Inbox() <- hub.ListLobbies{Reply: listReply}
		lobbies := <-listReply

		views := make([]lobbyView, 0, len(lobbies))
		for _, lb := range lobbies {
			reply := make(chan lobby.View, 1)
			lb.Inbox() <- lobby.GetState{Reply: reply}
			views = append(views, newLobbyView(<-reply))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(views)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
