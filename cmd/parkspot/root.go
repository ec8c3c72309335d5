// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration and sets up logging before every command

package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/parkspot/internal/config"
	"github.com/harper/parkspot/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *log.Logger

	logLevelFlag string
	radiusFlag   float64
)

var rootCmd = &cobra.Command{
	Use:   "parkspot",
	Short: "Mark and find parking spots near you",
	Long: `
██████╗  █████╗ ██████╗ ██╗  ██╗███████╗██████╗  ██████╗ ████████╗
██╔══██╗██╔══██╗██╔══██╗██║ ██╔╝██╔════╝██╔══██╗██╔═══██╗╚══██╔══╝
██████╔╝███████║██████╔╝█████╔╝ ███████╗██████╔╝██║   ██║   ██║
██╔═══╝ ██╔══██║██╔══██╗██╔═██╗ ╚════██║██╔═══╝ ██║   ██║   ██║
██║     ██║  ██║██║  ██║██║  ██╗███████║██║     ╚██████╔╝   ██║
╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝      ╚═════╝    ╚═╝

         Mark parking spots and find the nearest one

Examples:
  parkspot shell
  parkspot distance 41.8781 -87.6298 41.8827 -87.6233
  parkspot mcp`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevelFlag
		}
		if cmd.Flags().Changed("radius") {
			loaded.SearchRadiusMeters = radiusFlag
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		cfg = loaded
		logger = logging.Setup(cfg.GetLogLevel())
		logger.Debug("config loaded", "path", config.GetConfigPath(), "radius_m", cfg.GetRadius())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Float64Var(&radiusFlag, "radius", 0, "search radius in meters")
}
