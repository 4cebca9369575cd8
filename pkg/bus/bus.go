package bus

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
)

var (
	// ErrClosed indicates the bus has been closed.
	ErrClosed = errors.New("bus closed")
	// ErrBadID indicates the identifier exceeds the 11-bit width.
	ErrBadID = errors.New("identifier out of range")
	// ErrFrameTooLong indicates the data exceeds MaxDataLen.
	ErrFrameTooLong = errors.New("frame data too long")
)

// Bus transmits and receives frames.
type Bus interface {
	// Send transmits a frame. Delivery is fire-and-forget.
	Send(Frame) error
	// TryReceive retrieves the next pending frame without blocking.
	// ok is false when no frame is pending.
	TryReceive() (f Frame, ok bool, err error)
	// Close releases resources. Further Send/TryReceive return ErrClosed.
	Close() error
}

// InitError is the terminal error after bounded Open retries.
type InitError struct {
	Attempts int
	Last     error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("bus init failed after %d attempts: %v", e.Attempts, e.Last)
}

// Open dials a bus with a bounded retry policy: up to attempts tries
// with a fixed delay in between. It never spins forever; after the
// last failure the InitError is terminal and the caller should give up.
func Open(dial func() (Bus, error), attempts int, delay time.Duration) (Bus, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		b, err := dial()
		if err == nil {
			return b, nil
		}
		lastErr = err
		glog.Warningf("bus init attempt %d/%d failed: %v", i, attempts, err)
		if i < attempts {
			time.Sleep(delay)
		}
	}
	return nil, &InitError{Attempts: attempts, Last: lastErr}
}
