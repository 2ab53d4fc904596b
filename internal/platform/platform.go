// Package platform is the contract surface between the bot and the
// chat platform: the event and message types that cross the wire, the
// error kinds boundaries must match on, and the API every handler
// consumes. The real transport lives in client.go and internal/gateway.
package platform

import (
	"context"
	"errors"
)

// Boundary error kinds. Callers match with errors.Is and pick a
// fallback path; neither is ever fatal.
var ErrForbidden = errors.New("platform: forbidden")
var ErrNotFound = errors.New("platform: not found")

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Ready fires once per gateway session, after login.
type Ready struct {
	User User `json:"user"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       string       `json:"image,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
}

type ButtonStyle string

const (
	StylePrimary   ButtonStyle = "primary"
	StyleSuccess   ButtonStyle = "success"
	StyleSecondary ButtonStyle = "secondary"
	StyleDanger    ButtonStyle = "danger"
)

type Button struct {
	CustomID string      `json:"custom_id"`
	Label    string      `json:"label"`
	Style    ButtonStyle `json:"style"`
	Disabled bool        `json:"disabled,omitempty"`
}

// Outgoing is the payload for sends, edits and interaction updates.
type Outgoing struct {
	Content         string   `json:"content,omitempty"`
	Embed           *Embed   `json:"embed,omitempty"`
	Buttons         []Button `json:"buttons,omitempty"`
	MentionEveryone bool     `json:"mention_everyone,omitempty"`
}

type Message struct {
	ID        string  `json:"id"`
	ChannelID string  `json:"channel_id"`
	Author    User    `json:"author"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
	Pinned    bool    `json:"pinned,omitempty"`
}

type InteractionKind string

const (
	InteractionComponent  InteractionKind = "component"
	InteractionFormSubmit InteractionKind = "form_submit"
)

// Interaction is one button click or form submission.
type Interaction struct {
	ID        string            `json:"id"`
	Kind      InteractionKind   `json:"kind"`
	CustomID  string            `json:"custom_id"`
	User      User              `json:"user"`
	ChannelID string            `json:"channel_id"`
	MessageID string            `json:"message_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

type FormInput struct {
	CustomID    string `json:"custom_id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	MaxLength   int    `json:"max_length,omitempty"`
}

type Form struct {
	CustomID string      `json:"custom_id"`
	Title    string      `json:"title"`
	Inputs   []FormInput `json:"inputs"`
}

// API is everything the bot may ask the platform to do. Implemented by
// Client over HTTP; tests swap in an in-memory fake.
type API interface {
	SendMessage(ctx context.Context, channelID string, out Outgoing) (Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, out Outgoing) (Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	GetMessage(ctx context.Context, channelID, messageID string) (Message, error)
	ChannelHistory(ctx context.Context, channelID string, limit int) ([]Message, error)

	// RespondEphemeral answers an interaction with a private note only
	// the acting user sees.
	RespondEphemeral(ctx context.Context, it Interaction, content string) error
	// UpdateMessage answers a component interaction by rewriting the
	// message the component sits on.
	UpdateMessage(ctx context.Context, it Interaction, out Outgoing) error
	// OpenForm answers a component interaction by presenting a form.
	OpenForm(ctx context.Context, it Interaction, form Form) error
}
