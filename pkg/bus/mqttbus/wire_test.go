package mqttbus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cantalk/cantalk/pkg/bus"
)

func TestMarshal(t *testing.T) {
	f, err := bus.NewFrame(0x4C, []byte("hi"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x4C, 2, 'h', 'i'}, Marshal(f))

	empty, err := bus.NewFrame(0x400, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x04, 0x00, 0}, Marshal(empty))
}

func TestUnmarshal(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"chat", []byte{0x00, 0x4C, 2, 'h', 'i'}, true},
		{"empty prime", []byte{0x04, 0x00, 0}, true},
		{"short header", []byte{0x00, 0x4C}, false},
		{"id out of range", []byte{0x08, 0x00, 0}, false},
		{"length mismatch", []byte{0x00, 0x4C, 3, 'h', 'i'}, false},
		{"length too big", []byte{0x00, 0x4C, 9, 1, 2, 3, 4, 5, 6, 7, 8, 9}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Unmarshal(tc.data)
			if !tc.ok {
				require.Equal(t, ErrBadWire, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.data, Marshal(f))
		})
	}
}
