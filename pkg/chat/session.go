package chat

import (
	"sync"

	"github.com/golang/glog"

	"github.com/cantalk/cantalk/pkg/bus"
)

// Session holds the local identity and the configured recipient set
// for outgoing chat. It is built once at setup and passed explicitly
// to everything that sends; the recipient set may be changed by the
// operator between sends.
type Session struct {
	Me  Identity
	Dev Device

	mu     sync.Mutex
	to     RecipientSet
	lastID uint16
	primed bool
}

// NewSession creates a Session.
func NewSession(me Identity, to RecipientSet, dev Device) *Session {
	return &Session{Me: me, Dev: dev, to: to}
}

// Recipients gets the configured recipient set.
func (s *Session) Recipients() RecipientSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.to
}

// SetRecipients changes the recipient set for subsequent chat sends.
func (s *Session) SetRecipients(to RecipientSet) {
	s.mu.Lock()
	s.to = to
	s.mu.Unlock()
}

// SendChat encodes and transmits a chat message to the configured
// recipient set. ErrPayloadTooLong is returned without transmitting.
func (s *Session) SendChat(b bus.Bus, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := EncodeChat(s.Me, s.to, text)
	if err != nil {
		return err
	}
	return s.transmit(b, f)
}

// SendCommand encodes and transmits a device command.
func (s *Session) SendCommand(b bus.Bus, dev Device, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transmit(b, EncodeCommand(dev, on))
}

// transmit sends f, preceded by an empty priming frame whenever the
// identifier differs from the last one transmitted. The transport
// registers a new identifier only after an initial transmission, so
// the first data frame under a new identifier would otherwise be lost.
// Callers must hold s.mu: check, prime and update form one critical
// section or two concurrent sends could interleave a stale identifier.
func (s *Session) transmit(b bus.Bus, f bus.Frame) error {
	if !s.primed || f.ID != s.lastID {
		glog.V(2).Infof("priming id %03X", f.ID)
		if err := b.Send(bus.Frame{ID: f.ID}); err != nil {
			return err
		}
		s.lastID, s.primed = f.ID, true
	}
	return b.Send(f)
}
