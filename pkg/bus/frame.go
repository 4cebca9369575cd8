package bus

import (
	"fmt"
)

// IDBits is the width of a frame identifier.
const IDBits = 11

// IDMask masks a value to the identifier width.
const IDMask uint16 = (1 << IDBits) - 1

// MaxDataLen is the maximum frame data length.
const MaxDataLen = 8

// Frame is one atomic unit of transmission on the bus.
type Frame struct {
	ID     uint16
	Data   [MaxDataLen]byte
	Length uint8
}

// NewFrame creates a Frame from an identifier and data bytes.
func NewFrame(id uint16, data []byte) (Frame, error) {
	if id&^IDMask != 0 {
		return Frame{}, ErrBadID
	}
	if len(data) > MaxDataLen {
		return Frame{}, ErrFrameTooLong
	}
	f := Frame{ID: id, Length: uint8(len(data))}
	copy(f.Data[:], data)
	return f, nil
}

// Payload returns the valid portion of the frame data.
func (f Frame) Payload() []byte {
	n := f.Length
	if n > MaxDataLen {
		n = MaxDataLen
	}
	return f.Data[:n]
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("%03X [%d] % X", f.ID, f.Length, f.Payload())
}
