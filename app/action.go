package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/parkour/internal/config"
	"github.com/ayoisaiah/parkour/internal/hooks"
	"github.com/ayoisaiah/parkour/internal/metrics"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/ui"
	"github.com/ayoisaiah/parkour/parkour"
	"github.com/ayoisaiah/parkour/server"
	"github.com/ayoisaiah/parkour/store"
)

const (
	envNoColor        = "NO_COLOR"
	envParkourNoColor = "PARKOUR_NO_COLOR"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// serveAction runs the game server until interrupted.
func serveAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	logger, logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	defer logFile.Close()

	courses, err := loadCourses(cfg)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return err
	}

	defer db.Close()

	runner, err := hooks.New(cfg.Hooks.CompletionCmd, cfg.Hooks.Timeout)
	if err != nil {
		return err
	}

	m := metrics.New()
	mats := materials(cfg)
	hub := server.NewHub(presentation.NewCatalog(cfg.Messages), logger)

	reg := parkour.NewRegistry(parkour.Deps{
		Store:      db,
		Settings:   settingsService(cfg),
		Sink:       hub,
		Teleporter: hub,
		Logger:     logger,
		Metrics:    m,
		Materials:  &mats,
		Spawn:      cfg.SpawnPoint(),
		SpawnDelay: cfg.SpawnDelay,
	}, parkour.WithCompletionHook(runner))

	srv, err := server.New(server.Options{
		Registry:       reg,
		Hub:            hub,
		Records:        db,
		Metrics:        m,
		Logger:         logger,
		Addr:           cfg.Server.Addr,
		JWTSecret:      cfg.Server.JWTSecret,
		Courses:        courses,
		JoinRate:       cfg.Server.JoinRate,
		JoinBurst:      cfg.Server.JoinBurst,
		ReadLimit:      cfg.Server.ReadLimit,
		AllowAnonymous: cfg.Server.AllowAnonymous,
	})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln(
		"Serving %d course(s) on %s (logs: %s)",
		len(courses),
		cfg.Server.Addr,
		config.LogFilePath(),
	)

	return srv.Run(runCtx)
}

// simulateAction replays a recording of samples through the engine and
// prints what each participant would have seen.
func simulateAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	courses, err := loadCourses(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return errReadRecording.Wrap(err)
	}

	defer f.Close()

	var db store.DB

	if ctx.Bool("persist") {
		db, err = store.Open(cfg.Store.Driver, cfg.Store.Path)
	} else {
		var dir string

		dir, err = os.MkdirTemp("", "parkour-simulate-")
		if err != nil {
			return err
		}

		defer os.RemoveAll(dir)

		db, err = store.Open(store.DriverBolt, filepath.Join(dir, "replay.db"))
	}

	if err != nil {
		return err
	}

	defer db.Close()

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	mats := materials(cfg)

	r := newReplayer(os.Stdout, replayOptions{
		Store:      db,
		Settings:   settingsService(cfg),
		Catalog:    presentation.NewCatalog(cfg.Messages),
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		Materials:  &mats,
		Courses:    courses,
		Spawn:      cfg.SpawnPoint(),
		SpawnDelay: cfg.SpawnDelay,
	})

	results, err := r.run(f, cfg.SpawnDelay)
	if err != nil {
		return err
	}

	pterm.Println()

	return printResultsTable(os.Stdout, results)
}

// bestAction prints the stored best times of a participant.
func bestAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return err
	}

	defer db.Close()

	participant := ctx.String("participant")

	records, err := db.Records(participant)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(records)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	return listRecords(os.Stdout, participant, records)
}

// forgetAction deletes every stored record of a participant. It asks for
// confirmation unless --yes is set.
func forgetAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return err
	}

	defer db.Close()

	participant := ctx.String("participant")

	records, err := db.Records(participant)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		pterm.Info.Printfln(noRecordsMsg, participant)
		return nil
	}

	if !ctx.Bool("yes") {
		if err := printRecordsTable(os.Stdout, records); err != nil {
			return err
		}

		warning := pterm.Warning.Sprint(
			"The above records will be deleted permanently. Press ENTER to proceed",
		)

		fmt.Fprint(os.Stdout, warning)

		reader := bufio.NewReader(config.Stdin)

		_, _ = reader.ReadString('\n')
	}

	return db.DeleteRecords(participant)
}

// validateAction checks the config and the courses file.
func validateAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	courses, err := loadCourses(cfg)
	if err != nil {
		return err
	}

	for _, c := range courses {
		pterm.Success.Printfln("%s: %d level(s)", c.Name, c.Len())
	}

	pterm.Success.Printfln("Config %s is valid", config.ConfigFilePath())

	return nil
}

// tokenAction prints a signed token for a participant.
func tokenAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.Server.JWTSecret == "" {
		return errNoSecret
	}

	token, err := server.IssueToken(
		cfg.Server.JWTSecret,
		ctx.String("participant"),
		ctx.Duration("ttl"),
	)
	if err != nil {
		return err
	}

	pterm.Println(token)

	return nil
}

// editConfigAction opens the config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	// write the defaults first if the file does not exist yet
	if _, err := config.New(config.WithViperConfig(config.ConfigFilePath())); err != nil {
		return err
	}

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	if err := cmd.Run(); err != nil {
		return errOpenEditor.Fmt(editor).Wrap(err)
	}

	return nil
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if PARKOUR_NO_COLOR is set
	if _, exists := os.LookupEnv(envParkourNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	ui.LightTheme = ctx.Bool("light-theme")

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(contextOf(ctx), "exiting parkour")

	return nil
}

func contextOf(ctx *cli.Context) context.Context {
	if ctx.Context == nil {
		return context.Background()
	}

	return ctx.Context
}
