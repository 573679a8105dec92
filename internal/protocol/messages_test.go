package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/revolver/internal/game"
)

func TestActionRequestFrame(t *testing.T) {
	frame, err := Marshal(TypeActionRequest, ActionRequest{
		GameID:    "abc",
		View:      View{Turn: 3, Player: 1, PrevAction: game.Slide, Chambers: 4, Bullets: 1, Players: 2},
		TimeoutMs: 500,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "action_request",
		"data": {
			"game_id": "abc",
			"view": {"turn": 3, "player": 1, "prev_action": "slide", "chambers": 4, "bullets": 1, "players": 2},
			"timeout_ms": 500
		}
	}`, string(frame))
}

func TestDecode(t *testing.T) {
	msg, err := Unmarshal([]byte(`{"type":"action","data":{"game_id":"g","turn":2,"action":"trigger"}}`))
	require.NoError(t, err)

	var a Action
	require.NoError(t, msg.Decode(TypeAction, &a))
	assert.Equal(t, Action{GameID: "g", Turn: 2, Action: game.Trigger}, a)

	var h Hello
	err = msg.Decode(TypeHello, &h)
	assert.ErrorIs(t, err, ErrUnexpectedType)
}

func TestDecodeRejectsUnknownAction(t *testing.T) {
	msg, err := Unmarshal([]byte(`{"type":"action","data":{"game_id":"g","turn":2,"action":"spin"}}`))
	require.NoError(t, err)

	var a Action
	assert.Error(t, msg.Decode(TypeAction, &a))
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte(`not json`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`{"data":{}}`))
	assert.ErrorContains(t, err, "missing type")
}

func TestViewConversion(t *testing.T) {
	v := game.View{Turn: 7, Player: 2, PrevAction: game.Trigger, Chambers: 3, Bullets: 1, Players: 3}
	assert.Equal(t, v, FromView(v).GameView())
}
