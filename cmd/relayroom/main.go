package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relayroom/relayroom/internal/app"
	"github.com/relayroom/relayroom/internal/config"
	"github.com/relayroom/relayroom/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
		username   string
		password   string
		register   bool
	)

	cmd := &cobra.Command{
		Use:           "relayroom",
		Short:         "Terminal client for relayroom chat servers",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}
			application, err := build(configPath, overrides)
			if err != nil {
				return err
			}
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return application.Run(ctx, app.LoginOptions{
				Username: username,
				Password: pw,
				Register: register,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&overrides.APIOrigin, "api", "", "API origin, e.g. http://localhost:8002")
	cmd.PersistentFlags().StringVar(&overrides.ChannelOrigin, "ws", "", "channel origin, e.g. ws://localhost:8002")
	cmd.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&username, "user", "", "username")
	cmd.PersistentFlags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&register, "register", false, "register the account before logging in")

	cmd.AddCommand(newRoomsCmd(&configPath, &overrides, &username, &password))
	return cmd
}

// newRoomsCmd lists the directory once and exits, for scripting.
func newRoomsCmd(configPath *string, overrides *config.Config, username, password *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "Log in, print the room directory, and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if *username == "" {
				return fmt.Errorf("--user is required")
			}
			application, err := build(*configPath, *overrides)
			if err != nil {
				return err
			}
			pw, err := resolvePassword(*password)
			if err != nil {
				return err
			}

			control := application.Controller()
			if err := control.Login(cmd.Context(), *username, pw, false); err != nil {
				return err
			}
			defer control.Logout()

			rooms, _ := control.Rooms()
			for _, room := range rooms {
				fmt.Printf("%s\t%s\t(by %s)\n", room.ID, room.Name, room.CreatedBy)
			}
			return nil
		},
	}
}

func build(configPath string, overrides config.Config) (*app.App, error) {
	bootLog := log.New(overrides.LogLevel)

	cfg, path, err := config.Load(bootLog, configPath)
	if err != nil {
		return nil, err
	}
	cfg.UpdateFrom(overrides)

	logger := log.New(cfg.LogLevel)
	logger.Debug().
		Str("config", path).
		Str("api_origin", cfg.APIOrigin).
		Str("channel_origin", cfg.ChannelOrigin).
		Msg("configured")

	return app.New(cfg, logger), nil
}

func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
