package app

import (
	"github.com/rs/zerolog"

	"github.com/relayroom/relayroom/internal/api"
	"github.com/relayroom/relayroom/internal/channel"
	"github.com/relayroom/relayroom/internal/config"
	"github.com/relayroom/relayroom/internal/session"
)

// App wires the API client, the channel dialer, and the session
// controller together for the terminal frontend.
type App struct {
	cfg     config.Config
	log     *zerolog.Logger
	control *session.Controller
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	apiClient := api.New(cfg.APIOrigin, logger)
	dialer := channel.NewWSDialer(cfg.ChannelOrigin, logger)

	return &App{
		cfg:     cfg,
		log:     logger,
		control: session.NewController(apiClient, dialer, logger),
	}
}

// Controller exposes the session controller for one-shot commands.
func (a *App) Controller() *session.Controller {
	return a.control
}
