package bot

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wfclan/generals-lfg-bot/internal/hub"
	"github.com/wfclan/generals-lfg-bot/internal/platform"
	"github.com/wfclan/generals-lfg-bot/internal/render"
	"github.com/wfclan/generals-lfg-bot/internal/retention"
	"github.com/wfclan/generals-lfg-bot/internal/types"
)

// fakeAPI is an in-memory platform: messages live in a map, every call
// is recorded, and permission failures are switchable per test.
type fakeAPI struct {
	mu     sync.Mutex
	nextID int

	messages  map[string]platform.Message
	history   []platform.Message
	sent      []platform.Outgoing
	deleted   []string
	updates   map[string]platform.Outgoing // interaction message id -> new content
	forms     []platform.Form
	ephemeral []string

	denyMention bool
	denyDelete  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		messages: make(map[string]platform.Message),
		updates:  make(map[string]platform.Outgoing),
	}
}

func (f *fakeAPI) SendMessage(_ context.Context, channelID string, out platform.Outgoing) (platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denyMention && out.MentionEveryone {
		return platform.Message{}, platform.ErrForbidden
	}
	f.nextID++
	msg := platform.Message{ID: "m" + strconv.Itoa(f.nextID), ChannelID: channelID, Content: out.Content}
	if out.Embed != nil {
		msg.Embeds = []platform.Embed{*out.Embed}
	}
	f.messages[msg.ID] = msg
	f.sent = append(f.sent, out)
	return msg, nil
}

func (f *fakeAPI) EditMessage(_ context.Context, _, messageID string, out platform.Outgoing) (platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[messageID]
	if !ok {
		return platform.Message{}, platform.ErrNotFound
	}
	if out.Embed != nil {
		msg.Embeds = []platform.Embed{*out.Embed}
	}
	f.messages[messageID] = msg
	return msg, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denyDelete {
		return platform.ErrForbidden
	}
	if _, ok := f.messages[messageID]; !ok {
		return platform.ErrNotFound
	}
	delete(f.messages, messageID)
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeAPI) GetMessage(_ context.Context, _, messageID string) (platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[messageID]
	if !ok {
		return platform.Message{}, platform.ErrNotFound
	}
	return msg, nil
}

func (f *fakeAPI) ChannelHistory(_ context.Context, _ string, _ int) ([]platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history, nil
}

func (f *fakeAPI) RespondEphemeral(_ context.Context, _ platform.Interaction, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ephemeral = append(f.ephemeral, content)
	return nil
}

func (f *fakeAPI) UpdateMessage(_ context.Context, it platform.Interaction, out platform.Outgoing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[it.MessageID] = out
	return nil
}

func (f *fakeAPI) OpenForm(_ context.Context, _ platform.Interaction, form platform.Form) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakeAPI) lastEphemeral(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.ephemeral, "expected an ephemeral reply")
	return f.ephemeral[len(f.ephemeral)-1]
}

func newTestHandler(t *testing.T, api *fakeAPI) (*Handler, *types.RuntimeState) {
	t.Helper()
	state := &types.RuntimeState{}
	h := hub.NewHub(context.Background())
	pol := retention.NewPolicy(api, state, retention.NewClock(), time.Hour, zap.NewNop())
	return New(api, h, state, pol, "lfg-channel", 50, zap.NewNop()), state
}

func click(customID, messageID, userID, name string) platform.Interaction {
	return platform.Interaction{
		ID:        "it-" + customID + "-" + userID,
		Kind:      platform.InteractionComponent,
		CustomID:  customID,
		User:      platform.User{ID: userID, DisplayName: name},
		ChannelID: "lfg-channel",
		MessageID: messageID,
	}
}

func submitForm(userID, name, gameType, radmin, count string) platform.Interaction {
	return platform.Interaction{
		ID:       "it-form-" + userID,
		Kind:     platform.InteractionFormSubmit,
		CustomID: render.IDCreateForm,
		User:     platform.User{ID: userID, DisplayName: name},
		Fields: map[string]string{
			render.FieldGameType:     gameType,
			render.FieldRadminVBN:    radmin,
			render.FieldPlayersCount: count,
		},
	}
}

// createTestLobby submits the form and returns the announcement id.
func createTestLobby(t *testing.T, h *Handler, api *fakeAPI) string {
	t.Helper()
	h.HandleInteraction(context.Background(), submitForm("host", "Host", "3v3", "-WF| 123456", "3"))

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.sent, 1)
	for id := range api.messages {
		return id
	}
	t.Fatalf("no announcement recorded")
	return ""
}

func TestHandleReady_SweepsAndRepublishesPanel(t *testing.T) {
	api := newFakeAPI()
	stale := platform.Message{
		ID:     "old-panel",
		Author: platform.User{ID: "bot"},
		Embeds: []platform.Embed{{Title: render.PanelTitle}},
	}
	chatter := platform.Message{ID: "chatter", Author: platform.User{ID: "someone"}}
	api.history = []platform.Message{stale, chatter}
	api.messages["old-panel"] = stale
	api.messages["chatter"] = chatter

	h, state := newTestHandler(t, api)
	h.HandleReady(context.Background(), platform.Ready{User: platform.User{ID: "bot"}})

	require.Contains(t, api.deleted, "old-panel")
	require.NotContains(t, api.deleted, "chatter")

	require.Len(t, api.sent, 1)
	require.Equal(t, render.PanelTitle, api.sent[0].Embed.Title)

	// The fresh panel's id is the new retention exemption key.
	var panelID string
	for id, msg := range api.messages {
		if len(msg.Embeds) > 0 && msg.Embeds[0].Title == render.PanelTitle {
			panelID = id
		}
	}
	require.True(t, state.IsPanelMessage(panelID))
	require.False(t, state.IsPanelMessage("old-panel"))
}

func TestCreateGameButton_OpensForm(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)

	h.HandleInteraction(context.Background(), click(render.IDCreateGame, "", "u1", "Alpha"))

	require.Len(t, api.forms, 1)
	require.Equal(t, render.IDCreateForm, api.forms[0].CustomID)
}

func TestCreateLobby_AnnouncesWithMention(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)

	createTestLobby(t, h, api)

	require.True(t, api.sent[0].MentionEveryone)
	require.Equal(t, "@everyone", api.sent[0].Content)
	require.Contains(t, api.sent[0].Embed.Description, "- SLOTS   | 3")
}

func TestCreateLobby_MentionForbiddenFallsBackToPlainSend(t *testing.T) {
	api := newFakeAPI()
	api.denyMention = true
	h, _ := newTestHandler(t, api)

	h.HandleInteraction(context.Background(), submitForm("host", "Host", "FFA", "-WF| 9", "2"))

	require.Len(t, api.sent, 1, "only the mention-less retry should land")
	require.False(t, api.sent[0].MentionEveryone)
	require.Empty(t, api.sent[0].Content)
}

func TestCreateLobby_BlankFieldsRejected(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)

	h.HandleInteraction(context.Background(), submitForm("host", "Host", "", "-WF| 9", "2"))

	require.Empty(t, api.sent)
	require.Equal(t, replyCreateFailed, api.lastEphemeral(t))
}

func TestJoinLeaveFlow(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)
	msgID := createTestLobby(t, h, api)

	h.HandleInteraction(context.Background(), click(render.IDJoin, msgID, "u1", "Alpha"))
	require.Contains(t, api.updates[msgID].Embed.Fields[0].Value, "+ Alpha")
	require.Contains(t, api.updates[msgID].Embed.Description, "- SLOTS   | 2")

	h.HandleInteraction(context.Background(), click(render.IDJoin, msgID, "u1", "Alpha"))
	require.Equal(t, "You are already in the list.", api.lastEphemeral(t))

	h.HandleInteraction(context.Background(), click(render.IDLeave, msgID, "host", "Host"))
	require.Equal(t, "Host cannot leave. You can close the game.", api.lastEphemeral(t))

	h.HandleInteraction(context.Background(), click(render.IDLeave, msgID, "u1", "Alpha"))
	require.NotContains(t, api.updates[msgID].Embed.Fields[0].Value, "+ Alpha")
	require.Contains(t, api.updates[msgID].Embed.Description, "- SLOTS   | 3")
}

func TestJoin_FullLobbyRejected(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)

	h.HandleInteraction(context.Background(), submitForm("host", "Host", "1v1", "-WF| 1", "1"))
	api.mu.Lock()
	var msgID string
	for id := range api.messages {
		msgID = id
	}
	api.mu.Unlock()

	h.HandleInteraction(context.Background(), click(render.IDJoin, msgID, "u1", "Alpha"))
	h.HandleInteraction(context.Background(), click(render.IDJoin, msgID, "u2", "Bravo"))
	require.Equal(t, "Lobby is full.", api.lastEphemeral(t))

	// Full lobby renders with the join button off.
	for _, b := range api.updates[msgID].Buttons {
		if b.CustomID == render.IDJoin {
			require.True(t, b.Disabled)
		}
	}
}

func TestClose_NonHostRejected(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)
	msgID := createTestLobby(t, h, api)

	h.HandleInteraction(context.Background(), click(render.IDClose, msgID, "u1", "Alpha"))
	require.Equal(t, "Only the host can close this game.", api.lastEphemeral(t))
	require.Empty(t, api.deleted)
}

func TestClose_DeletesAnnouncement(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)
	msgID := createTestLobby(t, h, api)

	h.HandleInteraction(context.Background(), click(render.IDClose, msgID, "host", "Host"))
	require.Contains(t, api.deleted, msgID)

	// The lobby is gone: further clicks resolve to nothing.
	h.HandleInteraction(context.Background(), click(render.IDJoin, msgID, "u1", "Alpha"))
	require.Equal(t, replyLobbyGone, api.lastEphemeral(t))
}

func TestClose_DeleteForbiddenFallsBackToClosedRender(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)
	msgID := createTestLobby(t, h, api)
	api.denyDelete = true

	h.HandleInteraction(context.Background(), click(render.IDClose, msgID, "host", "Host"))

	update, ok := api.updates[msgID]
	require.True(t, ok, "expected a closed-in-place re-render")
	for _, b := range update.Buttons {
		require.True(t, b.Disabled, "button %s enabled after close", b.CustomID)
	}

	// The lobby object survives, but every action now bounces.
	h.HandleInteraction(context.Background(), click(render.IDJoin, msgID, "u1", "Alpha"))
	require.Equal(t, "This game is closed.", api.lastEphemeral(t))
}

func TestUnknownMessageClick(t *testing.T) {
	api := newFakeAPI()
	h, _ := newTestHandler(t, api)

	h.HandleInteraction(context.Background(), click(render.IDJoin, "no-such-message", "u1", "Alpha"))
	require.Equal(t, replyLobbyGone, api.lastEphemeral(t))
}
