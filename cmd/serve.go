package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laborctl/internal/apihandlers"
)

var (
	serveAddr string // Listen address
	servePort string // Listen port
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin workflows as an HTTP API server",
	Long: `Starts an HTTP server exposing job status views, job actions and KYC
review under /api/v1, using the signed-in admin session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		addr := appInstance.Config.Serve.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		port := appInstance.Config.Serve.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		if appInstance.Config.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.Default() // Includes logger and recovery middleware
		apihandlers.NewAPIHandler(appInstance).Register(router)

		listenAddr := fmt.Sprintf("%s:%s", addr, port)
		log.WithField("addr", listenAddr).Info("starting admin API server")
		if !appInstance.AuthService.Authenticated() {
			log.Warn("not logged in; backend calls will fail until 'laborctl login' is run")
		}

		// router.Run blocks unless an error occurs
		if err := router.Run(listenAddr); err != nil {
			log.WithError(err).Error("API server stopped")
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
}
