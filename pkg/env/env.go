// Package env provides process configuration for bus nodes.
package env

import (
	"flag"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"

	"github.com/cantalk/cantalk/pkg/bus"
	"github.com/cantalk/cantalk/pkg/bus/mqttbus"
)

// Config provides common options to set up a bus node.
type Config struct {
	// NodeID uniquely identifies this process on the bus.
	NodeID string
	// MQTTBrokerURL specifies the broker standing in for the bus,
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// InitAttempts bounds bus initialization retries.
	InitAttempts int
	// InitDelay is the fixed delay between retries.
	InitDelay time.Duration
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/cantalk/",
	InitAttempts:  10,
	InitDelay:     500 * time.Millisecond,
}

func init() {
	if val := os.Getenv("CANTALK_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	defaultConfig.NodeID = MachineID()
}

// MachineID retrieves the unique ID identifying the machine.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.NodeID, "id", defaultConfig.NodeID, "Node ID on the bus")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.IntVar(&defaultConfig.InitAttempts, "init-attempts", defaultConfig.InitAttempts, "Bus init attempts before giving up")
	flag.DurationVar(&defaultConfig.InitDelay, "init-delay", defaultConfig.InitDelay, "Delay between bus init attempts")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewBus dials the bus with the bounded retry policy. The error after
// the final attempt is terminal; there is no retry-forever mode.
func (c *Config) NewBus() (bus.Bus, error) {
	return bus.Open(func() (bus.Bus, error) {
		return mqttbus.Dial(c.MQTTBrokerURL, c.NodeID)
	}, c.InitAttempts, c.InitDelay)
}
