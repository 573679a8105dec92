package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/revolver/internal/game"
	"github.com/lox/revolver/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	helloWait      = 10 * time.Second
	sendTimeout    = time.Second
	maxMessageSize = 4096
)

var (
	ErrBotClosed   = errors.New("bot connection closed")
	ErrSendTimeout = errors.New("timed out queueing message for bot")
)

// Bot is a connected client that has introduced itself.
type Bot struct {
	ID     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *log.Logger

	mu      sync.Mutex
	pending *pendingAction
}

// pendingAction is an outstanding action request. Only an answer for the same
// game and turn is accepted.
type pendingAction struct {
	gameID string
	turn   int
	reply  chan game.Action
}

func newBot(id string, conn *websocket.Conn, logger *log.Logger) *Bot {
	return &Bot{
		ID:     id,
		conn:   conn,
		send:   make(chan []byte, 64),
		done:   make(chan struct{}),
		logger: logger.With("bot", id),
	}
}

// Send queues a message for the bot.
func (b *Bot) Send(t protocol.Type, payload any) error {
	data, err := protocol.Marshal(t, payload)
	if err != nil {
		return err
	}

	select {
	case <-b.done:
		return ErrBotClosed
	default:
	}

	select {
	case b.send <- data:
		return nil
	case <-b.done:
		return ErrBotClosed
	case <-time.After(sendTimeout):
		return ErrSendTimeout
	}
}

// Done is closed when the connection goes away.
func (b *Bot) Done() <-chan struct{} {
	return b.done
}

// Close drops the connection. It is safe to call more than once.
func (b *Bot) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}

// expect registers interest in the answer to an action request, replacing any
// earlier request.
func (b *Bot) expect(gameID string, turn int) *pendingAction {
	p := &pendingAction{gameID: gameID, turn: turn, reply: make(chan game.Action, 1)}
	b.mu.Lock()
	b.pending = p
	b.mu.Unlock()
	return p
}

func (b *Bot) forget(p *pendingAction) {
	b.mu.Lock()
	if b.pending == p {
		b.pending = nil
	}
	b.mu.Unlock()
}

// deliver hands an action to the outstanding request it answers.
func (b *Bot) deliver(a protocol.Action) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.pending
	if p == nil || p.gameID != a.GameID || p.turn != a.Turn {
		return false
	}
	b.pending = nil
	p.reply <- a.Action
	return true
}

// readPump reads messages until the connection fails.
func (b *Bot) readPump() {
	defer b.Close()

	b.conn.SetReadLimit(maxMessageSize)
	_ = b.conn.SetReadDeadline(time.Now().Add(pongWait))
	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.Warn("Unexpected websocket close", "error", err)
			}
			return
		}

		msg, err := protocol.Unmarshal(frame)
		if err != nil {
			b.sendError(protocol.CodeBadMessage, err.Error())
			continue
		}

		var action protocol.Action
		if err := msg.Decode(protocol.TypeAction, &action); err != nil {
			b.sendError(protocol.CodeBadMessage, err.Error())
			continue
		}
		if !b.deliver(action) {
			b.logger.Debug("Dropping stale action", "game", action.GameID, "turn", action.Turn)
			b.sendError(protocol.CodeStale, "no action was requested for that game and turn")
		}
	}
}

// writePump owns all writes to the connection and closes it on the way out,
// which also unblocks readPump.
func (b *Bot) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		b.Close()
		_ = b.conn.Close()
	}()

	for {
		select {
		case frame := <-b.send:
			_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := b.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := b.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-b.done:
			b.flush()
			_ = b.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// flush writes whatever is still queued.
func (b *Bot) flush() {
	for {
		select {
		case frame := <-b.send:
			_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := b.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (b *Bot) sendError(code, message string) {
	if err := b.Send(protocol.TypeError, protocol.Error{Code: code, Message: message}); err != nil {
		b.logger.Debug("Failed to send error", "code", code, "error", err)
	}
}
