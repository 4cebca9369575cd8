package sh

import (
	"context"

	"github.com/golang/glog"

	"github.com/cantalk/cantalk/pkg/bus"
	"github.com/cantalk/cantalk/pkg/chat"
	fx "github.com/cantalk/cantalk/pkg/framework"
)

// SendTask drains queued operator actions on each loop tick and
// transmits them through the session. It is the only writer of the
// session's last-identifier state.
type SendTask struct {
	Session *chat.Session
	Bus     bus.Bus
	Outbox  <-chan Outgoing

	// Report delivers operator-visible feedback, e.g. an oversized
	// message being dropped. Optional.
	Report func(format string, args ...interface{})
}

// AddToLoop implements framework.LoopAdder.
func (t *SendTask) AddToLoop(loop *fx.Loop) {
	loop.AddTask(t)
}

// Tick implements framework.Task.
func (t *SendTask) Tick(ctx context.Context) error {
	for {
		select {
		case out := <-t.Outbox:
			t.send(out)
		default:
			return nil
		}
	}
}

func (t *SendTask) send(out Outgoing) {
	var err error
	switch out.Kind {
	case OutgoingChat:
		err = t.Session.SendChat(t.Bus, out.Text)
	case OutgoingCommand:
		err = t.Session.SendCommand(t.Bus, out.Dev, out.On)
	}
	if err == chat.ErrPayloadTooLong {
		// Dropped, not fatal; the operator retypes something shorter.
		t.reportf("message too long (max %d bytes), dropped", bus.MaxDataLen)
		return
	}
	if err != nil {
		glog.Errorf("send failed: %v", err)
	}
}

func (t *SendTask) reportf(format string, args ...interface{}) {
	if t.Report != nil {
		t.Report(format+"\n", args...)
		return
	}
	glog.Warningf(format, args...)
}
