// Package app wires the parkour engine into a command-line application.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/parkour/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the parkour app instance.
func Get() *cli.App {
	configFlags := []cli.Flag{coursesFlag, storeDriverFlag, dbFlag, logLevelFlag}

	return &cli.App{
		Name: "parkour",
		Usage: `
		Parkour runs timed checkpoint courses for connected game clients. Players
		stream their positions over a WebSocket and the engine tracks levels,
		target times, checkpoints and best times.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP and WebSocket server",
				Flags:  append([]cli.Flag{addrFlag, spawnDelayFlag}, configFlags...),
				Action: serveAction,
			},
			{
				Name:      "simulate",
				Usage:     "Replay a JSON-lines recording of samples and print the feedback",
				ArgsUsage: "FILE",
				Flags:     append([]cli.Flag{persistFlag, spawnDelayFlag}, configFlags...),
				Action:    simulateAction,
			},
			{
				Name:   "best",
				Usage:  "Print the best times of a participant",
				Flags:  append([]cli.Flag{participantFlag, jsonFlag}, storeFlags...),
				Action: bestAction,
			},
			{
				Name:   "forget",
				Usage:  "Delete every stored record of a participant",
				Flags:  append([]cli.Flag{participantFlag, yesFlag}, storeFlags...),
				Action: forgetAction,
			},
			{
				Name:   "validate",
				Usage:  "Check the config and the courses file",
				Flags:  []cli.Flag{coursesFlag},
				Action: validateAction,
			},
			{
				Name:   "token",
				Usage:  "Issue a signed participant token for WebSocket clients",
				Flags:  []cli.Flag{participantFlag, ttlFlag},
				Action: tokenAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
			lightThemeFlag,
		},
		Before: beforeAction,
		After:  afterAction,
	}
}
