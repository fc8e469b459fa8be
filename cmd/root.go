package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laborctl/internal/app"
	"laborctl/internal/config"
	"laborctl/internal/models"
	"laborctl/internal/render"
)

var rootCmd = &cobra.Command{
	Use:   "laborctl",
	Short: "Labor marketplace admin CLI",
	Long: `laborctl is the admin console of the labor marketplace: it reviews jobs
through their lifecycle, verifies worker and employer KYC, and manages users
and the skill catalog against the marketplace REST backend.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never talk to the backend skip initialization
		switch cmd.Name() {
		case "help", "version", "status", "completion":
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			appInstance.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, models.ErrSessionExpired) || errors.Is(err, models.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, "Run 'laborctl login' to sign in.")
		}
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// Helper function to retrieve the app instance from context
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func printer(cmd *cobra.Command) *render.Printer {
	return render.New(cmd.OutOrStdout())
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(statusCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, session and backend connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Backend: %s (timeout %s)\n", appInstance.Config.API.BaseURL, appInstance.Config.API.Timeout)
		fmt.Fprintf(out, "Session file: %s\n", appInstance.Config.Session.Path)

		if !appInstance.AuthService.Authenticated() {
			fmt.Fprintln(out, "Not logged in. Run 'laborctl login' to check backend access.")
			return nil
		}

		fmt.Fprintln(out, "Checking backend connectivity...")
		user, err := appInstance.AuthService.Me(ctx)
		if err != nil {
			return fmt.Errorf("backend check failed: %w", err)
		}
		fmt.Fprintf(out, "Backend reachable, signed in as %s.\n", user.Email)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the job and KYC status vocabulary",
	Long: `Lists every job status with its display label, badge and the admin
actions it allows, followed by the KYC statuses.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printer(cmd).StatusVocabulary()
	},
}
