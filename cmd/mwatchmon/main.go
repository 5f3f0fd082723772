package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/link/mqtt"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

var (
	mqttURL    = "mqtt://localhost:1883/mwatch/"
	outputJSON bool
)

func init() {
	if val := os.Getenv("MWATCH_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print events in JSON.")
}

type monitor struct{}

func (monitor) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func main() {
	flag.Parse()
	flag.Set("logtostderr", "true")

	q, err := mqtt.NewPubSubFromURL(mqttURL)
	if err != nil {
		glog.Fatal(err)
	}
	q.Sub("#", func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.TopicMeta) || strings.HasSuffix(topic, "/"+mqtt.TopicRx) {
			glog.Infof("%s: %q", topic, payload)
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.Warningf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		glog.Infof("%s: %s", topic, msgs.Format(msg, outputJSON))
	})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		glog.Fatal(token.Error())
	}
	if err := fx.RunMain(fx.NamedRun("monitor", monitor{})); err != nil {
		glog.Fatal(err)
	}
	q.Close()
}
