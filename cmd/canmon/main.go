package main

// canmon passively watches the bus and prints every frame with its
// classification. Useful when debugging nodes.

import (
	"flag"
	"log"
	"time"

	"github.com/cantalk/cantalk/pkg/bus"
	"github.com/cantalk/cantalk/pkg/bus/mqttbus"
	"github.com/cantalk/cantalk/pkg/chat"
	"github.com/cantalk/cantalk/pkg/display"
	"github.com/cantalk/cantalk/pkg/env"
)

var (
	mqttURL  string
	nodeID   string
	interval = 50 * time.Millisecond
)

func init() {
	defaults := env.NewConfig()
	mqttURL = defaults.MQTTBrokerURL
	nodeID = "mon-" + defaults.NodeID
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&nodeID, "id", nodeID, "Monitor node ID.")
	flag.DurationVar(&interval, "interval", interval, "Poll interval.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	b, err := mqttbus.Dial(mqttURL, nodeID)
	if err != nil {
		log.Fatalln(err)
	}
	defer b.Close()

	for range time.Tick(interval) {
		for {
			f, ok, err := b.TryReceive()
			if err == bus.ErrClosed {
				log.Fatalln(err)
			}
			if err != nil {
				log.Printf("bad frame: %v", err)
				break
			}
			if !ok {
				break
			}
			printFrame(f)
		}
	}
}

func printFrame(f bus.Frame) {
	head := display.FormatID(f.ID) + " [" + display.FormatPayload(f.Payload()) + "]"
	if f.Length == 0 {
		log.Printf("%s prime", head)
		return
	}
	switch ev := chat.Classify(chat.None, f).(type) {
	case *chat.Chat:
		log.Printf("%s chat %s: %q", head, ev.Sender, ev.Text)
	case *chat.Command:
		state := "off"
		if ev.On() {
			state = "on"
		}
		log.Printf("%s cmd %s %s", head, ev.Target, state)
	case *chat.Malformed:
		log.Printf("%s malformed", head)
	}
}
