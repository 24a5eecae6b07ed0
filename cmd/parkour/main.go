package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/parkour/app"
	"github.com/ayoisaiah/parkour/internal/config"
	"github.com/ayoisaiah/parkour/internal/osutil"
)

func run(args []string) error {
	if err := config.InitializePaths(); err != nil {
		return err
	}

	return app.Get().Run(args)
}

func main() {
	if err := run(os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(int(osutil.ExitError))
	}
}
