// Package client connects a local policy to a revolver server as a bot.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/policy"
	"github.com/lox/revolver/internal/protocol"
)

// ErrRejected is returned when the server refuses the bot's hello.
var ErrRejected = errors.New("server rejected bot")

// errFinished ends a session once the configured number of games is played.
var errFinished = errors.New("game limit reached")

// Config configures a bot client.
type Config struct {
	URL  string
	Name string
	// Games disconnects after this many finished games; 0 plays until the
	// context is cancelled.
	Games int
	// RetryDelay is the pause between connection attempts. Zero disables
	// reconnecting.
	RetryDelay time.Duration
}

// Stats counts how this bot's games ended.
type Stats struct {
	Games      int
	Eliminated int
	Won        int
	Survived   int // someone else was eliminated, or everybody folded
	Fallbacks  int // turns where the server folded this bot
}

// Client plays games on a server using a local policy.
type Client struct {
	config Config
	policy policy.Policy
	logger *log.Logger
	clock  quartz.Clock
	dialer *websocket.Dialer

	mu    sync.Mutex
	stats Stats
}

// Option configures a Client.
type Option func(*Client)

// WithClock sets the clock used between reconnection attempts.
func WithClock(clock quartz.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// New creates a client.
func New(config Config, p policy.Policy, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		config: config,
		policy: p,
		logger: logger.WithPrefix("bot").With("name", config.Name),
		clock:  quartz.NewReal(),
		dialer: websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns a snapshot of the results so far.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Run plays until ctx is cancelled or the configured number of games have
// finished. Lost connections are retried after RetryDelay.
func (c *Client) Run(ctx context.Context) error {
	target, err := wsURL(c.config.URL)
	if err != nil {
		return err
	}

	for {
		err := c.session(ctx, target)
		switch {
		case errors.Is(err, errFinished):
			return nil
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrRejected), c.config.RetryDelay <= 0:
			return err
		}

		c.logger.Warn("Connection lost, retrying", "error", err, "delay", c.config.RetryDelay)
		retry := make(chan struct{})
		timer := c.clock.AfterFunc(c.config.RetryDelay, func() { close(retry) }, "client", "retry")
		select {
		case <-retry:
		case <-ctx.Done():
			timer.Stop()
			return nil
		}
	}
}

// session runs one connection from hello to disconnect.
func (c *Client) session(ctx context.Context, target string) error {
	conn, _, err := c.dialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", target, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c.logger.Info("Connected", "url", target)
	if err := write(conn, protocol.TypeHello, protocol.Hello{Name: c.config.Name}); err != nil {
		return err
	}

	var seat game.PlayerID
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading from server: %w", err)
		}

		msg, err := protocol.Unmarshal(frame)
		if err != nil {
			c.logger.Warn("Ignoring malformed message", "error", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeWelcome:
			var w protocol.Welcome
			if err := msg.Decode(msg.Type, &w); err != nil {
				return err
			}
			c.logger.Info("Registered", "bot", w.BotID, "seats", w.Seats)

		case protocol.TypeGameStart:
			var start protocol.GameStart
			if err := msg.Decode(msg.Type, &start); err != nil {
				return err
			}
			seat = start.Seat
			c.logger.Info("Game started", "game", start.GameID, "seat", seat,
				"players", len(start.Players), "chambers", start.Chambers, "bullets", start.Bullets)

		case protocol.TypeActionRequest:
			var req protocol.ActionRequest
			if err := msg.Decode(msg.Type, &req); err != nil {
				return err
			}
			action := c.decide(ctx, req)
			reply := protocol.Action{GameID: req.GameID, Turn: req.View.Turn, Action: action}
			if err := write(conn, protocol.TypeAction, reply); err != nil {
				return err
			}

		case protocol.TypeTurn:
			var turn protocol.Turn
			if err := msg.Decode(msg.Type, &turn); err != nil {
				return err
			}
			if turn.Player == seat && turn.Fallback != "" {
				c.mu.Lock()
				c.stats.Fallbacks++
				c.mu.Unlock()
				c.logger.Warn("Server folded us", "turn", turn.Turn, "reason", turn.Fallback)
			}
			c.logger.Debug("Turn", "turn", turn.Turn, "player", turn.Player, "action", turn.Action, "status", turn.Status)

		case protocol.TypeGameEnd:
			var end protocol.GameEnd
			if err := msg.Decode(msg.Type, &end); err != nil {
				return err
			}
			if c.record(end, seat) {
				return errFinished
			}

		case protocol.TypeError:
			var perr protocol.Error
			if err := msg.Decode(msg.Type, &perr); err != nil {
				return err
			}
			if perr.Code == protocol.CodeBadHello {
				return fmt.Errorf("%w: %s", ErrRejected, perr.Message)
			}
			c.logger.Warn("Server error", "code", perr.Code, "message", perr.Message)

		default:
			c.logger.Debug("Ignoring message", "type", msg.Type)
		}
	}
}

// decide asks the local policy, folding if it fails. The server's timeout
// bounds the policy.
func (c *Client) decide(ctx context.Context, req protocol.ActionRequest) game.Action {
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	action, err := c.policy.Decide(ctx, req.View.GameView())
	if err != nil {
		c.logger.Warn("Policy failed, folding", "turn", req.View.Turn, "error", err)
		return game.Fold
	}
	return action
}

// record tallies a finished game and reports whether the game limit has been
// reached.
func (c *Client) record(end protocol.GameEnd, seat game.PlayerID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Games++
	result := "survived"
	switch {
	case end.Status == game.PlayerEliminated && end.Player == seat:
		c.stats.Eliminated++
		result = "eliminated"
	case end.Status == game.PlayerWon && end.Player == seat:
		c.stats.Won++
		result = "won"
	default:
		c.stats.Survived++
	}
	c.logger.Info("Game over", "game", end.GameID, "result", result, "status", end.Status, "turns", end.Turns)

	return c.config.Games > 0 && c.stats.Games >= c.config.Games
}

func write(conn *websocket.Conn, t protocol.Type, payload any) error {
	frame, err := protocol.Marshal(t, payload)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("sending %s: %w", t, err)
	}
	return nil
}

// wsURL accepts http(s) or ws(s) server addresses and points them at the
// websocket endpoint.
func wsURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}
