package sh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cantalk/cantalk/pkg/bus/membus"
	"github.com/cantalk/cantalk/pkg/chat"
)

func TestSessionFromNames(t *testing.T) {
	s, err := sessionFromNames("RH", "WM, EH", "mega")
	require.NoError(t, err)
	require.Equal(t, chat.RH, s.Me)
	require.Equal(t, chat.RecipientSet(0).Add(chat.WM).Add(chat.EH), s.Recipients())
	require.Equal(t, chat.Mega, s.Dev)
}

func TestSessionFromNamesDefaultsToEveryoneElse(t *testing.T) {
	s, err := sessionFromNames("jz", "", "uno")
	require.NoError(t, err)
	require.Equal(t, chat.Broadcast(chat.JZ), s.Recipients())
}

func TestSessionFromNamesRejectsUnknown(t *testing.T) {
	for _, tc := range []struct {
		name          string
		me, to, board string
	}{
		{"identity", "nobody", "", "uno"},
		{"recipient", "RH", "WM,nobody", "uno"},
		{"device", "RH", "", "esp32"},
		{"self only", "RH", "RH", "uno"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sessionFromNames(tc.me, tc.to, tc.board)
			require.Error(t, err)
		})
	}
}

// A one-shot command only queues the action; the send task must still
// find it in the outbox afterwards and put it on the bus.
func TestRunArgsQueuesForFlush(t *testing.T) {
	hub := membus.NewHub()
	tx, rx := hub.Endpoint(), hub.Endpoint()

	s := New()
	s.Session = chat.NewSession(chat.RH, chat.Broadcast(chat.RH), chat.Uno)
	s.Run("say", "hi")

	task := &SendTask{Session: s.Session, Bus: tx, Outbox: s.Outbox}
	require.NoError(t, task.Tick(context.Background()))

	var payloads []string
	for {
		f, ok, err := rx.TryReceive()
		require.NoError(t, err)
		if !ok {
			break
		}
		payloads = append(payloads, string(f.Payload()))
	}
	// priming frame then the message
	require.Equal(t, []string{"", "hi"}, payloads)
}
