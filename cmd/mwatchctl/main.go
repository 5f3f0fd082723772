package main

//go-build: CGO_ENABLED=0

import (
	"github.com/robotalks/mwatch.go/pkg/cli/sh"
	env "github.com/robotalks/mwatch.go/pkg/env/connector"

	_ "github.com/robotalks/mwatch.go/pkg/cli/cmds/watch"
)

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
