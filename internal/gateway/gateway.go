// Package gateway maintains the websocket session that delivers
// platform events. It only reads: every outbound action goes through
// the REST client in internal/platform.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/wfclan/generals-lfg-bot/internal/platform"
)

// Handler receives decoded gateway events. Each call runs on its own
// goroutine so one slow or panicking handler can't stall the stream.
type Handler interface {
	HandleReady(ctx context.Context, ev platform.Ready)
	HandleMessage(ctx context.Context, msg platform.Message)
	HandleInteraction(ctx context.Context, it platform.Interaction)
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Client struct {
	url     string
	token   string
	handler Handler
	log     *zap.Logger
}

func NewClient(url, token string, handler Handler, log *zap.Logger) *Client {
	return &Client{url: url, token: token, handler: handler, log: log}
}

// Run keeps a session alive until ctx is cancelled, redialing with
// capped backoff after any disconnect.
func (c *Client) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			backoff = time.Second
		}

		c.log.Warn("gateway session ended",
			zap.Error(err), zap.Duration("retry_in", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bot "+c.token)

	conn, _, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	c.log.Info("gateway connected", zap.String("url", c.url))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Treat clean close/going-away as normal:
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}
		c.dispatch(ctx, data)
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Debug("undecodable gateway frame", zap.Error(err))
		return
	}

	switch f.Type {
	case "ready":
		var ev platform.Ready
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			c.log.Debug("bad ready payload", zap.Error(err))
			return
		}
		go c.handler.HandleReady(ctx, ev)

	case "message_create":
		var msg platform.Message
		if err := json.Unmarshal(f.Data, &msg); err != nil {
			c.log.Debug("bad message payload", zap.Error(err))
			return
		}
		go c.handler.HandleMessage(ctx, msg)

	case "interaction_create":
		var it platform.Interaction
		if err := json.Unmarshal(f.Data, &it); err != nil {
			c.log.Debug("bad interaction payload", zap.Error(err))
			return
		}
		go c.handler.HandleInteraction(ctx, it)

	default:
		c.log.Debug("unhandled gateway frame", zap.String("type", f.Type))
	}
}
