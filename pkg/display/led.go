package display

import (
	"github.com/golang/glog"
)

// LED is the physical endpoint driven by device commands.
type LED interface {
	Set(on bool)
}

// LogLED logs state changes instead of driving a pin.
type LogLED struct{}

// Set implements LED.
func (LogLED) Set(on bool) {
	state := "off"
	if on {
		state = "on"
	}
	glog.Infof("led %s", state)
}
