// Package render builds every message the bot posts. All functions are
// pure so they can run on each state transition and on re-render.
package render

import (
	"fmt"
	"strings"

	"github.com/wfclan/generals-lfg-bot/internal/engine"
	"github.com/wfclan/generals-lfg-bot/internal/platform"
)

const (
	GameName   = "Generals Zero Hour"
	PanelTitle = "Generals Control Panel"
	lobbyTitle = "**GENERALS ZERO HOUR CREATE GAME**"

	smallImage = "https://media.discordapp.net/attachments/1394027766638444554/1434619377424142439/ASDTSWZUHDFT.png?format=webp&quality=lossless"
	largeImage = "https://media.discordapp.net/attachments/1394027766638444554/1434619377826791524/cropped-image.png?format=webp&quality=lossless"

	lobbyColor = 0xff0000
	panelColor = 0x000000
)

// Component and form identifiers. The gateway routes interactions by
// these, so they must stay stable across restarts.
const (
	IDJoin       = "join"
	IDLeave      = "leave"
	IDClose      = "close"
	IDCreateGame = "create_game_btn"
	IDCreateForm = "create_game_form"

	FieldGameType     = "game_type"
	FieldRadminVBN    = "radmin_vbn"
	FieldPlayersCount = "players_count"
)

// Lobby renders the full announcement message for one lobby state,
// buttons included. Button enablement comes from engine.ControlsFor,
// never from ad-hoc flags.
func Lobby(s engine.State) platform.Outgoing {
	controls := engine.ControlsFor(s)

	embed := platform.Embed{
		Title:       lobbyTitle,
		Color:       lobbyColor,
		Description: "**MATCH INFO**\n" + MatchTable(s),
		Thumbnail:   smallImage,
		Image:       largeImage,
		Fields: []platform.EmbedField{
			{Name: "**PLAYERS**", Value: PlayerList(s)},
		},
	}

	return platform.Outgoing{
		Embed: &embed,
		Buttons: []platform.Button{
			{CustomID: IDJoin, Label: "Join", Style: platform.StyleSuccess, Disabled: !controls.Join},
			{CustomID: IDLeave, Label: "Leave", Style: platform.StyleSecondary, Disabled: !controls.Leave},
			{CustomID: IDClose, Label: "Close", Style: platform.StyleDanger, Disabled: !controls.Close},
		},
	}
}

// MatchTable is the diff-fenced GAME/RADMIN/SLOTS block.
func MatchTable(s engine.State) string {
	return fmt.Sprintf(
		"```diff\n- GAME    | %s\n- RADMIN  | %s\n- SLOTS   | %d\n```",
		s.GameType, s.RadminVBN, engine.SlotsLeft(s),
	)
}

// PlayerList renders members as green diff lines in join order, or a
// red placeholder when the list is somehow empty.
func PlayerList(s engine.State) string {
	if len(s.Members) == 0 {
		return "```diff\n- No players yet.\n```"
	}
	var b strings.Builder
	b.WriteString("```diff\n")
	for _, m := range s.Members {
		fmt.Fprintf(&b, "+ %s\n", m.Name)
	}
	b.WriteString("```")
	return b.String()
}

// Panel renders the persistent control panel message.
func Panel() platform.Outgoing {
	return platform.Outgoing{
		Embed: &platform.Embed{
			Title:       PanelTitle,
			Description: "Click the button below to create a game.",
			Color:       panelColor,
			Thumbnail:   smallImage,
			Image:       largeImage,
		},
		Buttons: []platform.Button{
			{CustomID: IDCreateGame, Label: "Create Game", Style: platform.StylePrimary},
		},
	}
}

// CreateGameForm is the three-field modal behind the Create Game button.
func CreateGameForm() platform.Form {
	return platform.Form{
		CustomID: IDCreateForm,
		Title:    "Create Generals Game | إنشاء لعبة جنرال",
		Inputs: []platform.FormInput{
			{
				CustomID:    FieldGameType,
				Label:       "GAME TYPE | نوع اللعبة",
				Placeholder: "3v3 / 2v2 / 1v1 / FFA",
				Required:    true,
				MaxLength:   50,
			},
			{
				CustomID:    FieldRadminVBN,
				Label:       "RADMIN VBN | الرادمن",
				Placeholder: "-WF| 123456",
				Required:    true,
				MaxLength:   100,
			},
			{
				CustomID:    FieldPlayersCount,
				Label:       "PLAYERS COUNT | عدد اللاعبين",
				Placeholder: "3",
				Required:    true,
				MaxLength:   2,
			},
		},
	}
}

// IsPanel reports whether msg is one of our own panel messages,
// matched by author and embed title the same way the startup sweep
// identifies stale panels.
func IsPanel(msg platform.Message, botUserID string) bool {
	if msg.Author.ID != botUserID || len(msg.Embeds) == 0 {
		return false
	}
	return msg.Embeds[0].Title == PanelTitle
}
