package chat

import (
	"errors"

	"github.com/cantalk/cantalk/pkg/bus"
)

// Identifier layout, most to least significant.
const (
	// KindBit distinguishes command frames (set) from chat frames (clear).
	KindBit uint16 = 1 << (senderShift + identityBits)
	// CommandID is the reserved device-command identifier. Only the
	// kind bit is set, so it can never collide with a valid chat
	// identifier (a valid chat has the kind bit clear and a nonzero
	// sender field).
	CommandID = KindBit

	senderShift = identityBits
	senderMask  = identityMask
	recipMask   = identityMask
)

var (
	// ErrPayloadTooLong indicates the chat text exceeds one frame.
	// The message must be dropped, not transmitted.
	ErrPayloadTooLong = errors.New("payload too long")
	// ErrBadSender indicates an attempt to encode with the None sender.
	ErrBadSender = errors.New("invalid sender")
)

// EncodeChat builds the frame for a chat message.
func EncodeChat(sender Identity, to RecipientSet, text string) (bus.Frame, error) {
	if !sender.IsValid() {
		return bus.Frame{}, ErrBadSender
	}
	if len(text) > bus.MaxDataLen {
		return bus.Frame{}, ErrPayloadTooLong
	}
	id := uint16(sender)<<senderShift | uint16(to&recipMask)
	return bus.NewFrame(id, []byte(text))
}

// EncodeCommand builds the frame for a device command.
func EncodeCommand(dev Device, on bool) bus.Frame {
	var v byte
	if on {
		v = 1
	}
	f, _ := bus.NewFrame(CommandID, []byte{byte(dev), v})
	return f
}

// Event is a classified inbound frame: *Chat, *Command or *Malformed.
type Event interface {
	event()
}

// Chat is an inbound chat message.
type Chat struct {
	Sender Identity
	ForMe  bool
	Text   []byte
}

func (*Chat) event() {}

// Command is an inbound device command.
type Command struct {
	Target Device
	Value  byte
}

// On reports whether the command switches the device on,
// following the bus convention of nonzero meaning on.
func (c *Command) On() bool {
	return c.Value != 0
}

func (*Command) event() {}

// Malformed is an inbound frame that fits no valid shape.
type Malformed struct {
	Frame bus.Frame
}

func (*Malformed) event() {}

// Classify interprets one inbound frame for the given local identity.
// It is pure: repeated calls on the same frame yield identical results.
//
// A frame is a chat iff its kind bit is clear and its sender field is
// nonzero. A zero sender field makes the frame a command candidate even
// with the kind bit clear (see the package doc on this ambiguity).
// Whether a Command targets the local device is the caller's predicate,
// not part of classification.
func Classify(me Identity, f bus.Frame) Event {
	sender := Identity(f.ID >> senderShift & senderMask)
	if f.ID&KindBit == 0 && sender != None {
		to := RecipientSet(f.ID & recipMask)
		text := make([]byte, len(f.Payload()))
		copy(text, f.Payload())
		return &Chat{
			Sender: sender,
			ForMe:  to.Contains(me),
			Text:   text,
		}
	}
	if f.Length < 2 {
		return &Malformed{Frame: f}
	}
	return &Command{Target: Device(f.Data[0]), Value: f.Data[1]}
}
