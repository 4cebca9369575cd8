package mqttbus

import (
	"errors"

	"github.com/cantalk/cantalk/pkg/bus"
)

// Wire format for one frame over the broker:
// byte 0-1 identifier, big endian, upper 5 bits zero
// byte 2   data length (0-8)
// byte 3+  data
const headerLen = 3

// ErrBadWire indicates a broker payload that is not a valid frame.
var ErrBadWire = errors.New("mqttbus: bad wire payload")

// Marshal encodes a frame into a broker payload.
func Marshal(f bus.Frame) []byte {
	n := int(f.Length)
	if n > bus.MaxDataLen {
		n = bus.MaxDataLen
	}
	out := make([]byte, headerLen+n)
	out[0] = byte(f.ID >> 8)
	out[1] = byte(f.ID)
	out[2] = byte(n)
	copy(out[headerLen:], f.Data[:n])
	return out
}

// Unmarshal decodes a broker payload into a frame.
func Unmarshal(data []byte) (bus.Frame, error) {
	if len(data) < headerLen {
		return bus.Frame{}, ErrBadWire
	}
	id := uint16(data[0])<<8 | uint16(data[1])
	if id&^bus.IDMask != 0 {
		return bus.Frame{}, ErrBadWire
	}
	n := int(data[2])
	if n > bus.MaxDataLen || len(data) != headerLen+n {
		return bus.Frame{}, ErrBadWire
	}
	return bus.NewFrame(id, data[headerLen:])
}
