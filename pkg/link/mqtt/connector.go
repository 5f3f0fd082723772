package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/abi"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/link"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

// Connector is the companion side entry to watches on a broker.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// ParseMeta decodes a retained meta message, an empty payload means the
// watch has gone.
func ParseMeta(topic string, payload []byte) (link.Info, bool) {
	items := strings.Split(topic, "/")
	if len(items) != 2 || items[1] != TopicMeta || len(payload) == 0 {
		return link.Info{}, false
	}
	info := link.Info{ID: items[0]}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		glog.Warningf("invalid meta of %s: %v", items[0], err)
	}
	return info, true
}

// Discover collects the watches announced on the broker.
func (c *Connector) Discover(ctx context.Context) (res []link.Info, err error) {
	q := NewPubSub(c.options, c.topicPrefix)
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()
	resCh := make(chan link.Info, 1)
	q.Sub(Topic("+", TopicMeta), func(topic string, payload []byte) {
		if info, ok := ParseMeta(topic, payload); ok {
			select {
			case resCh <- info:
			case <-time.After(time.Second):
			}
		}
	})

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// Connect connects to the watch with id.
func (c *Connector) Connect(ctx context.Context, id string) (*Conn, error) {
	conn := &Conn{PubSub: NewPubSub(c.options, c.topicPrefix), ID: id}
	token := conn.PubSub.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return conn, nil
}

// Conn is a companion connection to one watch.
type Conn struct {
	PubSub *PubSub
	ID     string
}

// Send publishes frame bytes to the watch.
func (c *Conn) Send(data []byte) error {
	return c.PubSub.PubWait(Topic(c.ID, TopicRx), data)
}

// SendInput publishes an input event to the watch.
func (c *Conn) SendInput(ev abi.InputEvent) error {
	data, err := EncodeInput(ev)
	if err != nil {
		return err
	}
	return c.PubSub.PubWait(Topic(c.ID, TopicInput), data)
}

// Events subscribes the events of the watch.
func (c *Conn) Events(handler fx.MessageHandler) *Subscription {
	return c.PubSub.Sub(Topic(c.ID, TopicEvents), func(_ string, payload []byte) {
		msg, err := msgs.DecodeMessage(payload)
		if err != nil {
			glog.Warningf("event dropped: %v", err)
			return
		}
		handler.HandleMessage(context.Background(), msg)
	})
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	return c.PubSub.Close()
}
