package chat

import (
	"context"

	"github.com/golang/glog"

	"github.com/cantalk/cantalk/pkg/bus"
	fx "github.com/cantalk/cantalk/pkg/framework"
)

// ChatHandler consumes classified chat events, for-me or not.
type ChatHandler interface {
	HandleChat(*Chat)
}

// HandleChatFunc is func form of ChatHandler.
type HandleChatFunc func(*Chat)

// HandleChat implements ChatHandler.
func (f HandleChatFunc) HandleChat(c *Chat) { f(c) }

// CommandHandler consumes device commands addressed to the local device.
type CommandHandler interface {
	HandleCommand(*Command)
}

// HandleCommandFunc is func form of CommandHandler.
type HandleCommandFunc func(*Command)

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(c *Command) { f(c) }

// Dispatcher classifies inbound frames and routes the events.
// Classification is stateless across frames; every frame is judged
// on its own against the static local identity and device.
type Dispatcher struct {
	Session  *Session
	Bus      bus.Bus
	Chats    ChatHandler
	Commands CommandHandler

	// Frames, when set, observes every inbound frame before
	// classification, e.g. to render it for the operator.
	Frames func(bus.Frame)
}

// NewDispatcher creates a Dispatcher reading from b.
func NewDispatcher(s *Session, b bus.Bus) *Dispatcher {
	return &Dispatcher{Session: s, Bus: b}
}

// Dispatch classifies one frame and routes the event. Commands not
// addressed to the local device are dropped here, after classification.
func (d *Dispatcher) Dispatch(f bus.Frame) Event {
	if obs := d.Frames; obs != nil {
		obs(f)
	}
	ev := Classify(d.Session.Me, f)
	switch e := ev.(type) {
	case *Chat:
		if h := d.Chats; h != nil {
			h.HandleChat(e)
		}
	case *Command:
		if e.Target != d.Session.Dev {
			glog.V(2).Infof("command for %s ignored", e.Target)
			break
		}
		if h := d.Commands; h != nil {
			h.HandleCommand(e)
		}
	case *Malformed:
		glog.Warningf("malformed frame dropped: %s", e.Frame)
	}
	return ev
}

// Tick implements framework.Task: it drains all pending frames from
// the bus and dispatches each. A failed read drops that frame only;
// processing continues on the next.
func (d *Dispatcher) Tick(ctx context.Context) error {
	for {
		f, ok, err := d.Bus.TryReceive()
		if err == bus.ErrClosed {
			return err
		}
		if err != nil {
			// Drop this frame; retry on the next tick.
			glog.Warningf("receive failed, frame dropped: %v", err)
			return nil
		}
		if !ok {
			return nil
		}
		d.Dispatch(f)
	}
}

// AddToLoop implements framework.LoopAdder.
func (d *Dispatcher) AddToLoop(loop *fx.Loop) {
	loop.AddTask(d)
}
