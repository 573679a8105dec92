// Package protocol defines the JSON messages exchanged between the bot server
// and its clients over a websocket.
//
// Every frame is an envelope carrying a message type and a type-specific
// payload:
//
//	{"type":"action_request","data":{"game_id":"...","turn":3,...}}
package protocol

import (
	"github.com/lox/revolver/internal/game"
)

// Type identifies the payload carried by a Message.
type Type string

const (
	// Client -> Server
	TypeHello  Type = "hello"
	TypeAction Type = "action"

	// Server -> Client
	TypeWelcome       Type = "welcome"
	TypeGameStart     Type = "game_start"
	TypeActionRequest Type = "action_request"
	TypeTurn          Type = "turn"
	TypeGameEnd       Type = "game_end"
	TypeError         Type = "error"
)

// Client -> Server Messages

// Hello is the first message a bot sends after connecting.
type Hello struct {
	Name string `json:"name"`
}

// Action answers an ActionRequest.
type Action struct {
	GameID string      `json:"game_id"`
	Turn   int         `json:"turn"`
	Action game.Action `json:"action"`
}

// Server -> Client Messages

// Welcome acknowledges a Hello and tells the bot which name it was
// registered under.
type Welcome struct {
	BotID string `json:"bot_id"`
	Seats int    `json:"seats"`
}

// Player is a seat at a game.
type Player struct {
	ID   game.PlayerID `json:"id"`
	Name string        `json:"name"`
}

// GameStart is sent to every seated bot when a game begins.
type GameStart struct {
	GameID   string        `json:"game_id"`
	Seat     game.PlayerID `json:"seat"`
	Players  []Player      `json:"players"` // in acting order
	Chambers int           `json:"chambers"`
	Bullets  int           `json:"bullets"`
}

// View mirrors game.View on the wire.
type View struct {
	Turn       int           `json:"turn"`
	Player     game.PlayerID `json:"player"`
	PrevAction game.Action   `json:"prev_action"`
	Chambers   int           `json:"chambers"`
	Bullets    int           `json:"bullets"`
	Players    int           `json:"players"`
}

// ActionRequest asks the acting bot for a decision.
type ActionRequest struct {
	GameID    string `json:"game_id"`
	View      View   `json:"view"`
	TimeoutMs int64  `json:"timeout_ms,omitempty"`
}

// Turn is broadcast after every resolved action.
type Turn struct {
	GameID   string        `json:"game_id"`
	Turn     int           `json:"turn"`
	Player   game.PlayerID `json:"player"`
	Action   game.Action   `json:"action"`
	Fallback string        `json:"fallback,omitempty"`
	Status   game.Status   `json:"status"`
	Chambers int           `json:"chambers"`
	Players  int           `json:"players"`
}

// GameEnd is broadcast when a game reaches a terminal outcome.
type GameEnd struct {
	GameID string        `json:"game_id"`
	Status game.Status   `json:"status"`
	Player game.PlayerID `json:"player"` // meaningless when everybody folded
	Turns  int           `json:"turns"`
}

// Error reports a protocol violation to the client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeBadMessage = "bad_message"
	CodeBadHello   = "bad_hello"
	CodeStale      = "stale_action"
)

// FromView converts a game view to its wire form.
func FromView(v game.View) View {
	return View{
		Turn:       v.Turn,
		Player:     v.Player,
		PrevAction: v.PrevAction,
		Chambers:   v.Chambers,
		Bullets:    v.Bullets,
		Players:    v.Players,
	}
}

// GameView converts the wire view back into a game view.
func (v View) GameView() game.View {
	return game.View{
		Turn:       v.Turn,
		Player:     v.Player,
		PrevAction: v.PrevAction,
		Chambers:   v.Chambers,
		Bullets:    v.Bullets,
		Players:    v.Players,
	}
}
