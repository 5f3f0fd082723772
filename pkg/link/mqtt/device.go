package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/abi"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/link"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

// Link is the watch side: it announces the watch, feeds <id>/rx into the
// device and publishes kernel events to <id>/events.
type Link struct {
	PubSub *PubSub
	ID     string
	Device link.Device

	metaJSON []byte
}

// NewLink creates a Link to the broker at brokerURL.
func NewLink(brokerURL, id string, meta link.Meta, dev link.Device) (*Link, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+Topic(id, TopicMeta), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("mwatch:" + id)
	}
	l := &Link{
		PubSub:   NewPubSub(opts, topicPrefix),
		ID:       id,
		Device:   dev,
		metaJSON: metaJSON,
	}
	l.PubSub.OnConnect = func(*PubSub) { l.announce() }
	return l, nil
}

// Run implements Runnable.
func (l *Link) Run(ctx context.Context) error {
	rx := l.PubSub.Sub(Topic(l.ID, TopicRx), l.handleRx)
	defer rx.Close()
	input := l.PubSub.Sub(Topic(l.ID, TopicInput), l.handleInput)
	defer input.Close()
	token := l.PubSub.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt link: %w", err)
	}
	<-ctx.Done()
	l.PubSub.PubWith(Topic(l.ID, TopicMeta), nil, 1, true).Wait()
	l.PubSub.Close()
	return ctx.Err()
}

// HandleMessage implements fx.MessageHandler, publishing kernel events.
func (l *Link) HandleMessage(ctx context.Context, msg fx.Message) {
	data, err := msgs.EncodeMessage(msg)
	if err != nil {
		glog.Errorf("encode event %T: %v", msg, err)
		return
	}
	if l.PubSub.Client.IsConnected() {
		l.PubSub.Pub(Topic(l.ID, TopicEvents), data)
	}
}

func (l *Link) announce() {
	l.PubSub.PubWith(Topic(l.ID, TopicMeta), l.metaJSON, 1, true)
}

func (l *Link) handleRx(_ string, payload []byte) {
	if n, err := l.Device.Write(payload); err != nil {
		glog.Errorf("rx dropped %d of %d bytes: %v", len(payload)-n, len(payload), err)
	}
}

func (l *Link) handleInput(_ string, payload []byte) {
	ev, err := DecodeInput(payload)
	if err != nil {
		glog.Warningf("input dropped: %v", err)
		return
	}
	l.Device.PushInput(ev)
}

// EncodeInput encodes an input event for <id>/input.
func EncodeInput(ev abi.InputEvent) ([]byte, error) {
	return msgs.EncodeMessage(&msgs.Input{Event: ev.String()})
}

// DecodeInput decodes the payload of <id>/input.
func DecodeInput(payload []byte) (abi.InputEvent, error) {
	msg, err := msgs.DecodeMessage(payload)
	if err != nil {
		return 0, err
	}
	input, ok := msg.(*msgs.Input)
	if !ok {
		return 0, fmt.Errorf("unexpected message %T", msg)
	}
	return abi.ParseInputEvent(input.Event)
}
