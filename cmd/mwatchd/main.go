package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/apps/demo"
	env "github.com/robotalks/mwatch.go/pkg/env/watch"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/kernel"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

func init() {
	env.SetupFlags()
}

func logEvent(ctx context.Context, msg fx.Message) {
	if m, ok := msg.(msgs.SerializableMessage); ok {
		glog.V(1).Infof("event %s", m.Serializable().String())
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.NewConfig()
	cfg, err := conf.Load()
	if err != nil {
		glog.Fatal(err)
	}
	k, err := kernel.New(cfg, demo.New().Register(app.NewRegistry()))
	if err != nil {
		glog.Fatal(err)
	}
	k.Observe(fx.HandleMessageFunc(logEvent))
	k.Loop().Add(conf.MustNewEnv(k))
	if err := fx.RunMain(k); err != nil {
		glog.Fatal(err)
	}
}
