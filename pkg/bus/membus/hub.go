// Package membus provides an in-memory loopback bus for tests and
// single-process simulation.
package membus

import (
	"sync"

	"github.com/golang/glog"

	"github.com/cantalk/cantalk/pkg/bus"
)

// queueDepth is the per-endpoint receive buffer.
const queueDepth = 64

// Hub fans frames out to every endpoint except the sender.
type Hub struct {
	lock      sync.Mutex
	endpoints []*Endpoint
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Endpoint attaches a new endpoint to the hub.
func (h *Hub) Endpoint() *Endpoint {
	ep := &Endpoint{hub: h, recvCh: make(chan bus.Frame, queueDepth)}
	h.lock.Lock()
	h.endpoints = append(h.endpoints, ep)
	h.lock.Unlock()
	return ep
}

func (h *Hub) broadcast(from *Endpoint, f bus.Frame) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for _, ep := range h.endpoints {
		if ep == from {
			continue
		}
		select {
		case ep.recvCh <- f:
		default:
			// Receiver not draining; the bus gives no delivery
			// guarantee, so the frame is lost.
			glog.Warningf("membus: endpoint queue full, frame %03X dropped", f.ID)
		}
	}
}

func (h *Hub) detach(ep *Endpoint) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for n, cur := range h.endpoints {
		if cur == ep {
			h.endpoints = append(h.endpoints[:n], h.endpoints[n+1:]...)
			break
		}
	}
}

// Endpoint is one attachment point on the hub, implementing bus.Bus.
type Endpoint struct {
	hub    *Hub
	recvCh chan bus.Frame

	lock   sync.Mutex
	closed bool
}

// Send implements bus.Bus.
func (ep *Endpoint) Send(f bus.Frame) error {
	ep.lock.Lock()
	closed := ep.closed
	ep.lock.Unlock()
	if closed {
		return bus.ErrClosed
	}
	if f.ID&^bus.IDMask != 0 {
		return bus.ErrBadID
	}
	ep.hub.broadcast(ep, f)
	return nil
}

// TryReceive implements bus.Bus.
func (ep *Endpoint) TryReceive() (bus.Frame, bool, error) {
	ep.lock.Lock()
	closed := ep.closed
	ep.lock.Unlock()
	if closed {
		return bus.Frame{}, false, bus.ErrClosed
	}
	select {
	case f := <-ep.recvCh:
		return f, true, nil
	default:
		return bus.Frame{}, false, nil
	}
}

// Close implements bus.Bus.
func (ep *Endpoint) Close() error {
	ep.lock.Lock()
	if ep.closed {
		ep.lock.Unlock()
		return bus.ErrClosed
	}
	ep.closed = true
	ep.lock.Unlock()
	ep.hub.detach(ep)
	return nil
}
