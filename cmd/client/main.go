package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"teamchat/client"
	grpcclient "teamchat/infrastructure/grpc/client"
	"teamchat/ui"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerAddr string `envconfig:"TEAMCHAT_ADDR" default:"localhost:8080"`
	Email      string `envconfig:"TEAMCHAT_EMAIL" required:"true"`
	Password   string `envconfig:"TEAMCHAT_PASSWORD" required:"true"`
	// TEAMCHAT_DISPLAY_NAME, when set, registers the account instead of logging in
	DisplayName string `envconfig:"TEAMCHAT_DISPLAY_NAME"`
	LogFile     string `envconfig:"TEAMCHAT_LOG_FILE" default:"teamchat-client.log"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Client terminated with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// 2. The terminal belongs to the interface, logs go to a file
	logFile, err := tea.LogToFile(config.LogFile, "teamchat")
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 3. Connect and sign in
	backend, err := grpcclient.Dial(config.ServerAddr)
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if config.DisplayName != "" {
		_, err = backend.Register(ctx, config.Email, config.DisplayName, config.Password)
	} else {
		_, err = backend.Login(ctx, config.Email, config.Password)
	}
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}
	session := backend.Session()
	logger.Info("Signed in", "user_id", session.UserID)

	// 4. Run the interface
	onChange, changes := ui.Notifier()
	state := client.NewSession(logger, backend, session.UserID, session.DisplayName, onChange)
	defer state.Close()

	_, err = tea.NewProgram(ui.NewModel(state, changes), tea.WithAltScreen()).Run()
	return err
}
