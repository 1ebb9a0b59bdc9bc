package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"supportbot/internal/config"
	"supportbot/internal/logging"
	"supportbot/internal/server"
	"supportbot/internal/service"
	"supportbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var serve bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/supportbot/config.yaml if not provided)")
	flag.BoolVar(&serve, "serve", false, "Serve the HTTP API instead of the terminal chat")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, cfgPath, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config %s: %s", cfgPath, e.Error())
		}
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging())
	defer logger.Sync()

	factory, err := service.NewFactory(cfg, logger)
	if err != nil {
		log.Fatalf("failed to assemble support bot: %v", err)
	}

	if serve {
		runServer(cfg, factory, logger)
		return
	}

	bot, err := factory.NewBot()
	if err != nil {
		log.Fatalf("failed to start session: %v", err)
	}
	if path := flag.Arg(0); path != "" {
		preload(bot, path)
	}

	if _, err := tea.NewProgram(tui.New(bot), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

// preload indexes a document before the chat opens, drawing a progress bar on stdout.
func preload(bot *service.SupportBot, path string) {
	color.Blue("Loading %s", path)
	var bar *progressbar.ProgressBar
	bot.OnProgress(func(done, total int) {
		if bar == nil {
			bar = getProgressBar(total, "Indexing sections")
		}
		_ = bar.Set(done)
	})
	defer bot.OnProgress(nil)

	if err := bot.UploadFile(context.Background(), path); err != nil {
		color.Red("\n%v", err)
		return
	}
	if bar != nil {
		_ = bar.Finish()
	}
	color.Green("\n✓ %s is ready for questions", path)
}

func runServer(cfg *config.AppConfig, factory *service.Factory, logger logging.Logger) {
	registry := server.NewRegistry(factory, cfg.SessionTTL())
	srv := server.New(registry, logger, server.Options{MaxUploadMB: cfg.Server.MaxUploadMB})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	color.Cyan("Support bot API listening on %s", cfg.Server.Addr)
	if err := srv.Run(cfg.Server.Addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("sections"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
