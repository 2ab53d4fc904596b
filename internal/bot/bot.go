// Package bot holds the event handlers: the panel lifecycle, the
// create-game form, and the lobby buttons. Each handler isolates its
// own failures; nothing here may take the process down.
package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wfclan/generals-lfg-bot/internal/engine"
	"github.com/wfclan/generals-lfg-bot/internal/hub"
	"github.com/wfclan/generals-lfg-bot/internal/lobby"
	"github.com/wfclan/generals-lfg-bot/internal/platform"
	"github.com/wfclan/generals-lfg-bot/internal/render"
	"github.com/wfclan/generals-lfg-bot/internal/retention"
	"github.com/wfclan/generals-lfg-bot/internal/types"
)

const (
	replyCreateFailed = "Something went wrong while creating the game."
	replyFormFailed   = "I couldn't open the form."
	replyLobbyGone    = "This game is no longer active."
)

type Handler struct {
	api          platform.API
	hub          *hub.Hub
	state        *types.RuntimeState
	retention    *retention.Policy
	channelID    string
	historyLimit int
	log          *zap.Logger
}

func New(api platform.API, h *hub.Hub, state *types.RuntimeState, ret *retention.Policy, channelID string, historyLimit int, log *zap.Logger) *Handler {
	return &Handler{
		api:          api,
		hub:          h,
		state:        state,
		retention:    ret,
		channelID:    channelID,
		historyLimit: historyLimit,
		log:          log,
	}
}

// HandleReady republishes the panel: sweep stale panels out of recent
// history, post a fresh one, and record its id as the retention
// exemption key. Buttons are routed by custom id, so the controls of
// messages posted before a restart keep working without registration.
func (h *Handler) HandleReady(ctx context.Context, ev platform.Ready) {
	h.log.Info("session ready", zap.String("bot_user", ev.User.ID))

	history, err := h.api.ChannelHistory(ctx, h.channelID, h.historyLimit)
	if err != nil {
		h.log.Warn("panel sweep: history scan failed", zap.Error(err))
	}
	for _, msg := range history {
		if !render.IsPanel(msg, ev.User.ID) {
			continue
		}
		if err := h.api.DeleteMessage(ctx, h.channelID, msg.ID); err != nil {
			h.log.Debug("panel sweep: stale panel not deleted",
				zap.String("message_id", msg.ID), zap.Error(err))
		}
	}

	msg, err := h.api.SendMessage(ctx, h.channelID, render.Panel())
	if err != nil {
		h.log.Error("panel publish failed", zap.Error(err))
		return
	}
	h.state.SetPanelMessage(msg.ID)
	h.log.Info("panel published", zap.String("message_id", msg.ID))
}

// HandleMessage feeds every new message to the retention policy. The
// policy itself skips the panel.
func (h *Handler) HandleMessage(_ context.Context, msg platform.Message) {
	h.retention.Observe(msg)
}

func (h *Handler) HandleInteraction(ctx context.Context, it platform.Interaction) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("interaction handler panicked",
				zap.String("custom_id", it.CustomID), zap.Any("panic", r))
			h.replyEphemeral(ctx, it, replyCreateFailed)
		}
	}()

	switch it.CustomID {
	case render.IDCreateGame:
		h.openCreateForm(ctx, it)
	case render.IDCreateForm:
		h.createLobby(ctx, it)
	case render.IDJoin:
		h.applyToLobby(ctx, it, engine.Command{Type: engine.CmdJoin, UserID: it.User.ID, DisplayName: it.User.DisplayName})
	case render.IDLeave:
		h.applyToLobby(ctx, it, engine.Command{Type: engine.CmdLeave, UserID: it.User.ID})
	case render.IDClose:
		h.applyToLobby(ctx, it, engine.Command{Type: engine.CmdClose, UserID: it.User.ID})
	default:
		h.log.Debug("interaction for unknown control", zap.String("custom_id", it.CustomID))
	}
}

func (h *Handler) openCreateForm(ctx context.Context, it platform.Interaction) {
	if err := h.api.OpenForm(ctx, it, render.CreateGameForm()); err != nil {
		h.log.Warn("open form failed", zap.String("user", it.User.ID), zap.Error(err))
		h.replyEphemeral(ctx, it, replyFormFailed)
	}
}

func (h *Handler) createLobby(ctx context.Context, it platform.Interaction) {
	gameType := it.Fields[render.FieldGameType]
	radmin := it.Fields[render.FieldRadminVBN]
	if gameType == "" || len(gameType) > 50 || radmin == "" || len(radmin) > 100 {
		h.replyEphemeral(ctx, it, replyCreateFailed)
		return
	}

	maxPlayers := engine.ParsePlayerCount(it.Fields[render.FieldPlayersCount])
	state := engine.NewState(it.User.ID, it.User.DisplayName, gameType, radmin, maxPlayers)

	reply := make(chan *lobby.Lobby, 1)
	h.hub.Inbox() <- hub.CreateLobby{State: state, Reply: reply}
	lb := <-reply

	msg, err := h.announce(ctx, render.Lobby(state))
	if err != nil {
		h.log.Error("announcement failed",
			zap.String("lobby_id", lb.ID().String()), zap.Error(err))
		h.hub.Inbox() <- hub.RemoveLobby{ID: lb.ID()}
		h.replyEphemeral(ctx, it, replyCreateFailed)
		return
	}

	h.hub.Inbox() <- hub.BindMessage{ID: lb.ID(), MessageID: msg.ID}
	h.log.Info("lobby created",
		zap.String("lobby_id", lb.ID().String()),
		zap.String("message_id", msg.ID),
		zap.String("host", it.User.ID),
		zap.Int("max_players", maxPlayers))
}

// announce posts the lobby with an @everyone ping, falling back to a
// plain send when the mention permission is missing.
func (h *Handler) announce(ctx context.Context, out platform.Outgoing) (platform.Message, error) {
	withPing := out
	withPing.Content = "@everyone"
	withPing.MentionEveryone = true

	msg, err := h.api.SendMessage(ctx, h.channelID, withPing)
	if errors.Is(err, platform.ErrForbidden) {
		return h.api.SendMessage(ctx, h.channelID, out)
	}
	return msg, err
}

func (h *Handler) applyToLobby(ctx context.Context, it platform.Interaction, cmd engine.Command) {
	lbReply := make(chan *lobby.Lobby, 1)
	h.hub.Inbox() <- hub.GetByMessage{MessageID: it.MessageID, Reply: lbReply}
	lb := <-lbReply
	if lb == nil {
		h.replyEphemeral(ctx, it, replyLobbyGone)
		return
	}

	reply := make(chan lobby.Result, 1)
	lb.Inbox() <- lobby.Interact{Cmd: cmd, Reply: reply}
	res := <-reply

	if res.Err != nil {
		h.replyEphemeral(ctx, it, userMessage(res.Err))
		return
	}

	if cmd.Type == engine.CmdClose {
		h.finishClose(ctx, it, lb, res.State)
		return
	}

	if err := h.api.UpdateMessage(ctx, it, render.Lobby(res.State)); err != nil {
		h.log.Warn("lobby re-render failed",
			zap.String("lobby_id", lb.ID().String()), zap.Error(err))
	}
}

// finishClose prefers deleting the announcement outright. When the
// platform refuses or the message is already gone, the lobby stays on
// screen closed, with every control disabled.
func (h *Handler) finishClose(ctx context.Context, it platform.Interaction, lb *lobby.Lobby, closed engine.State) {
	err := h.api.DeleteMessage(ctx, h.channelID, it.MessageID)
	switch {
	case err == nil:
		h.hub.Inbox() <- hub.RemoveLobby{ID: lb.ID()}
		h.log.Info("lobby closed and deleted", zap.String("lobby_id", lb.ID().String()))

	case errors.Is(err, platform.ErrForbidden), errors.Is(err, platform.ErrNotFound):
		if err := h.api.UpdateMessage(ctx, it, render.Lobby(closed)); err != nil {
			h.log.Warn("closed-lobby re-render failed",
				zap.String("lobby_id", lb.ID().String()), zap.Error(err))
		}
		h.log.Info("lobby closed in place", zap.String("lobby_id", lb.ID().String()))

	default:
		h.log.Warn("lobby close delete failed",
			zap.String("lobby_id", lb.ID().String()), zap.Error(err))
	}
}

func (h *Handler) replyEphemeral(ctx context.Context, it platform.Interaction, content string) {
	if err := h.api.RespondEphemeral(ctx, it, content); err != nil {
		h.log.Debug("ephemeral reply failed", zap.Error(err))
	}
}

// userMessage maps validation errors onto the replies users see.
func userMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrAlreadyClosed):
		return "This game is closed."
	case errors.Is(err, engine.ErrAlreadyMember):
		return "You are already in the list."
	case errors.Is(err, engine.ErrLobbyFull):
		return "Lobby is full."
	case errors.Is(err, engine.ErrNotAMember):
		return "You are not in the list."
	case errors.Is(err, engine.ErrHostCannotLeave):
		return "Host cannot leave. You can close the game."
	case errors.Is(err, engine.ErrNotHost):
		return "Only the host can close this game."
	default:
		return replyCreateFailed
	}
}
