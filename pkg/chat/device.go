package chat

import "strings"

// Device identifies an addressable board on the bus. Devices are a
// separate namespace from participant identities and appear only in
// command frames.
type Device uint8

// Known devices.
const (
	Uno  Device = 0
	Mega Device = 1
)

var deviceNames = map[Device]string{
	Uno:  "uno",
	Mega: "mega",
}

// Devices returns the known devices in prompt order.
func Devices() []Device {
	return []Device{Uno, Mega}
}

// DeviceByName maps a display name to a Device, ignoring case.
func DeviceByName(name string) (Device, bool) {
	for dev, n := range deviceNames {
		if strings.EqualFold(n, name) {
			return dev, true
		}
	}
	return 0, false
}

// IsValid reports whether the device is known.
func (d Device) IsValid() bool {
	_, ok := deviceNames[d]
	return ok
}

// String returns the display name.
func (d Device) String() string {
	if name, ok := deviceNames[d]; ok {
		return name
	}
	return "unknown"
}
