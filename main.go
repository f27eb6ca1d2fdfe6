// Package main is the entry point for surfplay.
package main

import (
	"github.com/samber/lo"
	"github.com/surfplay/surfplay/cmd"
	"github.com/surfplay/surfplay/config"
	"github.com/surfplay/surfplay/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
