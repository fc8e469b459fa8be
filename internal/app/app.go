package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"laborctl/internal/api"
	"laborctl/internal/config"
	"laborctl/internal/services"
	"laborctl/internal/session"
	"laborctl/internal/workflow"
)

type App struct {
	Config *config.Config

	Session    *session.Session
	Client     *api.Client
	Dispatcher *workflow.Dispatcher

	// --- Initialized Services ---
	AuthService     *services.AuthService
	JobService      *services.JobService
	ProfileService  *services.ProfileService
	UserService     *services.UserService
	CategoryService *services.CategoryService
}

func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app := &App{Config: cfg}

	if err := app.initLogging(); err != nil {
		return nil, err
	}
	if err := app.initSession(); err != nil {
		return nil, err
	}
	if err := app.initClient(); err != nil {
		return nil, err
	}
	app.initServices()

	log.WithFields(log.Fields{
		"api":           cfg.API.BaseURL,
		"authenticated": app.Session.Authenticated(),
	}).Debug("application initialization complete")
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initLogging() error {
	level, err := log.ParseLevel(a.Config.Log.Level)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if strings.EqualFold(a.Config.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if !a.Config.Output.Color {
		color.NoColor = true
	}
	return nil
}

func (a *App) initSession() error {
	sess, err := session.Load(a.Config.Session.Path)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}
	a.Session = sess
	return nil
}

func (a *App) initClient() error {
	client, err := api.New(a.Config.API.BaseURL, a.Config.API.Timeout, a.Session)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	a.Client = client
	a.Dispatcher = workflow.NewDispatcher(client, client)
	return nil
}

func (a *App) initServices() {
	a.AuthService = services.NewAuthService(a.Client, a.Session, a.Dispatcher)
	a.JobService = services.NewJobService(a.Client, a.Dispatcher)
	a.ProfileService = services.NewProfileService(a.Client, a.Dispatcher)
	a.UserService = services.NewUserService(a.Client)
	a.CategoryService = services.NewCategoryService(a.Client)
}

// Close drops every open entity session.
func (a *App) Close() {
	if a.Dispatcher != nil {
		a.Dispatcher.CloseAll()
	}
}
