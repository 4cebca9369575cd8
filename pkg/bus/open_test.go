package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopBus struct{}

func (nopBus) Send(Frame) error { return nil }

func (nopBus) TryReceive() (Frame, bool, error) { return Frame{}, false, nil }

func (nopBus) Close() error { return nil }

func TestOpenFirstTry(t *testing.T) {
	calls := 0
	b, err := Open(func() (Bus, error) {
		calls++
		return nopBus{}, nil
	}, 3, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Equal(t, 1, calls)
}

func TestOpenRetriesThenSucceeds(t *testing.T) {
	calls := 0
	b, err := Open(func() (Bus, error) {
		if calls++; calls < 3 {
			return nil, errors.New("transport absent")
		}
		return nopBus{}, nil
	}, 5, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Equal(t, 3, calls)
}

func TestOpenBoundedFailure(t *testing.T) {
	dialErr := errors.New("transport absent")
	calls := 0
	b, err := Open(func() (Bus, error) {
		calls++
		return nil, dialErr
	}, 4, time.Millisecond)
	require.Nil(t, b)
	require.Equal(t, 4, calls, "retries must be bounded, never forever")

	initErr, ok := err.(*InitError)
	require.True(t, ok)
	require.Equal(t, 4, initErr.Attempts)
	require.Equal(t, dialErr, initErr.Last)
}

func TestOpenAtLeastOneAttempt(t *testing.T) {
	calls := 0
	_, err := Open(func() (Bus, error) {
		calls++
		return nil, errors.New("nope")
	}, 0, 0)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
