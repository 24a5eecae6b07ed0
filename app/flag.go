package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	lightThemeFlag = &cli.BoolFlag{
		Name:  "light-theme",
		Usage: "Use colours that read well on a light terminal background",
	}

	addrFlag = &cli.StringFlag{
		Name:    "addr",
		Aliases: []string{"a"},
		Usage:   "Address for the HTTP and WebSocket server (default: :8080)",
	}

	coursesFlag = &cli.StringFlag{
		Name:    "courses",
		Aliases: []string{"c"},
		Usage:   "Path to the courses file",
	}

	storeDriverFlag = &cli.StringFlag{
		Name:  "store-driver",
		Usage: "Best time database driver: bolt or sqlite (default: bolt)",
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the best time database",
	}

	spawnDelayFlag = &cli.StringFlag{
		Name:  "spawn-delay",
		Usage: "How long to wait before sending a finished participant to spawn (e.g. 2s)",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn or error",
	}

	participantFlag = &cli.StringFlag{
		Name:     "participant",
		Aliases:  []string{"p"},
		Usage:    "Participant id",
		Required: true,
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print JSON instead of a table",
	}

	persistFlag = &cli.BoolFlag{
		Name:  "persist",
		Usage: "Save best times from the replay to the configured database",
	}

	ttlFlag = &cli.DurationFlag{
		Name:  "ttl",
		Usage: "How long the token stays valid. Zero means forever",
		Value: 0,
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}
)

var storeFlags = []cli.Flag{storeDriverFlag, dbFlag}
