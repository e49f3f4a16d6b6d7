package main

import (
	"github.com/sigco3111/relationship-visualizer/internal/server"
	"github.com/sigco3111/relationship-visualizer/internal/util"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
	"github.com/sigco3111/relationship-visualizer/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
