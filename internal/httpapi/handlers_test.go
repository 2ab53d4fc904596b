package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wfclan/generals-lfg-bot/internal/engine"
	"github.com/wfclan/generals-lfg-bot/internal/hub"
	"github.com/wfclan/generals-lfg-bot/internal/lobby"
)

func TestListLobbies(t *testing.T) {
	h := hub.NewHub(context.Background())

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.CreateLobby{State: engine.NewState("host", "Host", "3v3", "-WF| 1", 4), Reply: reply}
	lb := <-reply
	h.Inbox() <- hub.BindMessage{ID: lb.ID(), MessageID: "m1"}

	router := SetupRoutes(h)

	req := httptest.NewRequest(http.MethodGet, "/lobbies", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	var views []lobbyView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("want 1 lobby, got %d", len(views))
	}

	v := views[0]
	if v.MessageID != "m1" || v.SlotsLeft != 3 || len(v.Players) != 1 || v.Players[0] != "Host" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestHealthz(t *testing.T) {
	router := SetupRoutes(hub.NewHub(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}
