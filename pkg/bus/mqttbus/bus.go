// Package mqttbus implements bus.Bus over an MQTT broker, so that
// multiple node processes can share one logical bus.
package mqttbus

import (
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/cantalk/cantalk/pkg/bus"
)

// Topic conventions under the configured prefix:
// every node publishes frames to tx/<node> and subscribes tx/+,
// skipping its own segment. The broker stands in for the shared
// medium; like the real bus, delivery is unacknowledged (QoS 0).
const txTopic = "tx/"

// queueDepth is the receive buffer between the paho callback and
// TryReceive polling.
const queueDepth = 64

// Bus implements bus.Bus over MQTT.
type Bus struct {
	client paho.Client
	node   string
	prefix string
	recvCh chan []byte

	lock   sync.Mutex
	closed bool
}

// ClientOptionsFromURL creates paho options from a broker URL of the
// form mqtt://host:port/topic-prefix.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := u.Path
	if strings.HasPrefix(topicPrefix, "/") {
		topicPrefix = topicPrefix[1:]
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	return opts, topicPrefix, nil
}

// Dial connects to the broker and attaches to the shared bus topic.
// node must be unique per process on the bus; it also becomes the
// MQTT client ID.
func Dial(brokerURL, node string) (*Bus, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetClientID("cantalk-" + node)
	b := &Bus{
		node:   node,
		prefix: prefix,
		recvCh: make(chan []byte, queueDepth),
	}
	opts.SetOnConnectHandler(b.onConnect)
	opts.SetConnectionLostHandler(func(c paho.Client, err error) {
		glog.Warningf("connection lost: %v", err)
	})
	b.client = paho.NewClient(opts)
	token := b.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// onConnect subscribes on every (re)connect, mirroring the broker's
// loss of subscriptions across clean sessions.
func (b *Bus) onConnect(paho.Client) {
	glog.Info("connected")
	topic := b.prefix + txTopic + "+"
	if glog.V(2) {
		glog.Infof("SUB %q", topic)
	}
	token := b.client.Subscribe(topic, 0, b.dispatch)
	token.Wait()
	if err := token.Error(); err != nil {
		glog.Errorf("subscribe %q failed: %v", topic, err)
	}
}

func (b *Bus) dispatch(c paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, b.prefix+txTopic) {
		return
	}
	if topic[len(b.prefix+txTopic):] == b.node {
		// own transmission echoed back by the broker
		return
	}
	select {
	case b.recvCh <- msg.Payload():
	default:
		glog.Warningf("receive queue full, frame dropped")
	}
}

// Send implements bus.Bus.
func (b *Bus) Send(f bus.Frame) error {
	b.lock.Lock()
	closed := b.closed
	b.lock.Unlock()
	if closed {
		return bus.ErrClosed
	}
	if f.ID&^bus.IDMask != 0 {
		return bus.ErrBadID
	}
	topic := b.prefix + txTopic + b.node
	if glog.V(2) {
		glog.Infof("PUB %q %s", topic, f)
	}
	token := b.client.Publish(topic, 0, false, Marshal(f))
	token.Wait()
	return token.Error()
}

// TryReceive implements bus.Bus. A payload the broker delivered but
// that does not decode to a frame is reported as an error; the caller
// drops it and keeps processing.
func (b *Bus) TryReceive() (bus.Frame, bool, error) {
	b.lock.Lock()
	closed := b.closed
	b.lock.Unlock()
	if closed {
		return bus.Frame{}, false, bus.ErrClosed
	}
	select {
	case data := <-b.recvCh:
		f, err := Unmarshal(data)
		if err != nil {
			return bus.Frame{}, false, err
		}
		return f, true, nil
	default:
		return bus.Frame{}, false, nil
	}
}

// Close implements bus.Bus.
func (b *Bus) Close() error {
	b.lock.Lock()
	if b.closed {
		b.lock.Unlock()
		return bus.ErrClosed
	}
	b.closed = true
	b.lock.Unlock()
	b.client.Disconnect(0)
	return nil
}
