package main

import (
	"context"
	"fmt"
	"os"

	"github.com/effective-security/xlog"
	"github.com/myproject/weather-agent/agent"
)

var logger = xlog.NewPackageLogger("github.com/myproject/weather-agent", "main")

func main() {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)

	cfg, err := agent.LoadAgentConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	}

	ctx := context.Background()
	weatherAgent, err := agent.NewReActAgent(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create agent: %v\n", err)
		os.Exit(1)
	}

	conv := agent.NewConversation()
	logger.KV(xlog.INFO,
		"status", "started",
		"agent", weatherAgent.Name,
		"description", weatherAgent.Description,
		"conversation", conv.ID(),
		"provider", cfg.Provider,
		"model", cfg.Model,
	)

	console := &agent.Console{In: os.Stdin, Out: os.Stdout}
	if err := console.Run(ctx, weatherAgent, conv); err != nil {
		logger.KV(xlog.ERROR, "reason", "session", "err", err.Error())
		os.Exit(1)
	}
}
