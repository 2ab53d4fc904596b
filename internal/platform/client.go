package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client talks to the platform's REST API. It maps 403/404 onto
// ErrForbidden/ErrNotFound so callers can branch without looking at
// status codes.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SendMessage(ctx context.Context, channelID string, out Outgoing) (Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", out, &msg)
	return msg, err
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, out Outgoing) (Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodPatch, "/channels/"+channelID+"/messages/"+messageID, out, &msg)
	return msg, err
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return c.do(ctx, http.MethodDelete, "/channels/"+channelID+"/messages/"+messageID, nil, nil)
}

func (c *Client) GetMessage(ctx context.Context, channelID, messageID string) (Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodGet, "/channels/"+channelID+"/messages/"+messageID, nil, &msg)
	return msg, err
}

func (c *Client) ChannelHistory(ctx context.Context, channelID string, limit int) ([]Message, error) {
	var msgs []Message
	path := "/channels/" + channelID + "/messages?limit=" + strconv.Itoa(limit)
	err := c.do(ctx, http.MethodGet, path, nil, &msgs)
	return msgs, err
}

type interactionResponse struct {
	Type      string    `json:"type"` // "ephemeral" | "update_message" | "form"
	Content   string    `json:"content,omitempty"`
	Outgoing  *Outgoing `json:"message,omitempty"`
	Form      *Form     `json:"form,omitempty"`
	Ephemeral bool      `json:"ephemeral,omitempty"`
}

func (c *Client) RespondEphemeral(ctx context.Context, it Interaction, content string) error {
	body := interactionResponse{Type: "ephemeral", Content: content, Ephemeral: true}
	return c.do(ctx, http.MethodPost, "/interactions/"+it.ID+"/response", body, nil)
}

func (c *Client) UpdateMessage(ctx context.Context, it Interaction, out Outgoing) error {
	body := interactionResponse{Type: "update_message", Outgoing: &out}
	return c.do(ctx, http.MethodPost, "/interactions/"+it.ID+"/response", body, nil)
}

func (c *Client) OpenForm(ctx context.Context, it Interaction, form Form) error {
	body := interactionResponse{Type: "form", Form: &form}
	return c.do(ctx, http.MethodPost, "/interactions/"+it.ID+"/response", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
