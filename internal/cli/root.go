// Package cli wires the wattwise commands together.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/naveen/wattwise/internal/logger"
)

// Persistent flags
var (
	cfgFile  string
	logLevel string
)

// View flags
var (
	watchFlag    bool
	intervalFlag int
	minutesFlag  int
	currentFlag  bool
	mockFlag     bool
	sourceFlag   string
	rawFlag      bool
)

// rootCmd runs the power view directly; subcommands cover everything else.
var rootCmd = &cobra.Command{
	Use:   "wattwise",
	Short: "Live power draw from your smart plug, in the terminal",
	Long: `WattWise reads power draw from a Home Assistant entity or a Kasa
smart plug and shows it in the terminal, either as a one-shot reading
or as a live dashboard with trends and charts.

Examples:
  wattwise                    one reading from the configured source
  wattwise --watch            live dashboard
  wattwise -w -i 5 -m 10      poll every 5s, stats over 10 minutes
  wattwise --raw              bare watts on stdout, for scripts
  wattwise --mock -w          demo mode, no hardware needed`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Initialize(logLevel)
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: runView reads rootCmd's persistent flags.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runView()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/wattwise/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "continuously watch power usage")
	rootCmd.Flags().IntVarP(&intervalFlag, "interval", "i", 1, "polling interval in seconds (1-60)")
	rootCmd.Flags().IntVarP(&minutesFlag, "minutes", "m", 5, "trailing window for statistics in minutes (1-60)")
	rootCmd.Flags().BoolVarP(&currentFlag, "current", "c", false, "also show amperage when the source supports it")
	rootCmd.Flags().BoolVar(&mockFlag, "mock", false, "use simulated readings instead of a device")
	rootCmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "force a source (homeassistant or kasa)")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "print bare watts to stdout, no dashboard")
}
