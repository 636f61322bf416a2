package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/input"
	"github.com/bittlabs/chatdock/internal/logging"
	"github.com/bittlabs/chatdock/internal/server"
)

// overrides collects the global flags.
func overrides() config.Overrides {
	return config.Overrides{
		ASCIIOnly:     asciiOnly,
		BorderStyle:   borderStyle,
		ThemeName:     themeName,
		Nickname:      nickname,
		Language:      language,
		EdgeThreshold: edgeThreshold,
		DragThreshold: dragThreshold,
		DragMetric:    dragMetric,
		NoTooltip:     noTooltip,
		Store:         storeKind,
		DatabasePath:  databasePath,
	}
}

// loadConfig layers the config file, .env and CHATDOCK_* variables, then
// flags, and validates the result. A missing or unreadable file falls back
// to defaults; an invalid one is fatal.
func loadConfig() (*config.UserConfig, error) {
	config.LoadDotEnv()

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			return nil, err
		}
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}

	config.ApplyEnv(userConfig, os.LookupEnv)
	config.ApplyOverrides(overrides(), userConfig)

	if err := validateMerged(userConfig); err != nil {
		return nil, err
	}

	if profile := colorprofile.Detect(os.Stdout, os.Environ()); profile == colorprofile.Ascii || profile == colorprofile.NoTTY {
		config.UseASCIIOnly = true
	}
	return userConfig, nil
}

// validateMerged checks the config after env and flags were applied on top
// of the file, logging each problem.
func validateMerged(cfg *config.UserConfig) error {
	result := config.ValidateConfig(cfg)
	for _, e := range result.Errors {
		log.Error("invalid setting", "section", e.Field, "key", e.Key, "msg", e.Message)
	}
	if result.HasErrors() {
		return fmt.Errorf("%w: check flags and CHATDOCK_* variables", config.ErrInvalidConfig)
	}
	return nil
}

// setup prepares logging and config shared by every command that runs a
// model. The returned function closes the log file.
func setup() (*config.UserConfig, *log.Logger, func(), error) {
	// config problems reach the terminal before the TUI owns it
	logging.Install(logging.NewStartup(os.Stderr))
	userConfig, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closeLog, err := logging.New(debugMode)
	if err != nil {
		return nil, nil, nil, err
	}
	logging.Install(logger)

	if debugMode {
		configPath, _ := config.GetConfigPath()
		logPath, _ := logging.Path()
		logger.Debug("starting", "version", version, "config", configPath)
		fmt.Fprintf(os.Stderr, "Debug log: %s\n", logPath)
	}

	app.SetInputHandler(input.HandleInput)
	return userConfig, logger, func() { _ = closeLog() }, nil
}

// openRoom opens the room with the configured store.
func openRoom(ctx context.Context, cfg *config.UserConfig, logger *log.Logger) (*chat.Room, error) {
	var store chat.Store
	switch cfg.Chat.Store {
	case "sqlite":
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		s, err := chat.OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("using sqlite store", "path", path)
		store = s
	default:
		store = chat.NewMemoryStore()
	}

	room, err := chat.NewRoom(ctx, store, chat.RoomOptions{
		MaxLength:    cfg.Chat.MaxLength,
		HistoryLimit: cfg.Chat.HistoryLimit,
		Logger:       logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return room, nil
}

// newLocalModel builds the model for this terminal.
func newLocalModel(cfg *config.UserConfig, room *chat.Room, logger *log.Logger) *app.Model {
	return app.New(app.Options{
		Widget: cfg.WidgetSettings(),
		Room:   room.Client(chat.Identity{Nickname: cfg.Chat.Nickname, Origin: cfg.Chat.Origin}),
		Keys:   config.NewKeybindRegistry(cfg),
		Lang:   cfg.Chat.Language,
		Logger: logger,
	})
}

// runProgram runs model until it quits or the process is signalled, then
// unmounts it. start, when non-nil, is sent as the first command.
func runProgram(model *app.Model, start tea.Cmd) error {
	opts := append(app.ProgramOptions(), tea.WithoutSignalHandler())
	p := tea.NewProgram(model, opts...)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.QuitMsg{})
		}
	}()

	if start != nil {
		go func() {
			if msg := start(); msg != nil {
				p.Send(msg)
			}
		}()
	}

	finalModel, err := p.Run()
	if finalApp, ok := finalModel.(*app.Model); ok {
		finalApp.Cleanup()
	} else {
		model.Cleanup()
	}

	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runLocal() error {
	userConfig, logger, done, err := setup()
	if err != nil {
		return err
	}
	defer done()

	room, err := openRoom(context.Background(), userConfig, logger)
	if err != nil {
		return err
	}
	defer func() { _ = room.Close() }()

	return runProgram(newLocalModel(userConfig, room, logger), nil)
}

// serveFlags holds the server command flags. Empty values fall back to the
// [server] config section.
type serveFlags struct {
	host    string
	port    string
	keyPath string
	webHost string
	webPort string
}

func (f serveFlags) webConfig() *server.WebServerConfig {
	return &server.WebServerConfig{Host: f.webHost, Port: f.webPort}
}

func (f serveFlags) sshConfig(cfg *config.UserConfig) (*server.SSHServerConfig, error) {
	sc := &server.SSHServerConfig{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		IdleTimeout: cfg.IdleTimeout(),
		Version:     version,
	}
	if f.host != "" {
		sc.Host = f.host
	}
	if f.port != "" {
		sc.Port = f.port
	}
	sc.HostKeyPath = f.keyPath
	if sc.HostKeyPath == "" {
		path, err := cfg.HostKeyPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve host key path: %w", err)
		}
		sc.HostKeyPath = path
	}
	return sc, nil
}

// runServers hosts the shared room over SSH, the web or both until the
// process is signalled.
func runServers(f serveFlags, withSSH, withWeb bool) error {
	userConfig, logger, done, err := setup()
	if err != nil {
		return err
	}
	defer done()
	if !debugMode {
		// servers have no TUI on this terminal; log to stderr instead
		logger = logging.NewWriter(os.Stderr, log.InfoLevel)
		logging.Install(logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	room, err := openRoom(ctx, userConfig, logger)
	if err != nil {
		return err
	}
	defer func() { _ = room.Close() }()

	var sshCfg *server.SSHServerConfig
	if withSSH {
		if sshCfg, err = f.sshConfig(userConfig); err != nil {
			return err
		}
	}
	var webCfg *server.WebServerConfig
	if withWeb {
		webCfg = f.webConfig()
	}
	sessions := server.NewSessions(room, userConfig, logger)
	if err := server.Serve(ctx, sshCfg, webCfg, sessions); err != nil {
		return err
	}
	logger.Info("servers stopped")
	return nil
}
