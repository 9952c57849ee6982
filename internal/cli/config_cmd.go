package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naveen/wattwise/internal/config"
)

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

// configShowCmd prints the resolved configuration with secrets redacted.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Println("homeassistant:")
		fmt.Printf("  host: %s\n", orUnset(cfg.HomeAssistant.Host))
		fmt.Printf("  token: %s\n", config.RedactToken(cfg.HomeAssistant.Token))
		fmt.Printf("  device_name: %s\n", orUnset(cfg.HomeAssistant.DeviceName))
		fmt.Printf("  entity_id: %s\n", orUnset(cfg.HomeAssistant.EntityID))
		fmt.Printf("  current_entity_id: %s\n", orUnset(cfg.HomeAssistant.CurrentEntityID))
		fmt.Println("kasa:")
		fmt.Printf("  device_ip: %s\n", orUnset(cfg.Kasa.DeviceIP))
		fmt.Printf("  alias: %s\n", cfg.Kasa.Alias)
		fmt.Println("display:")
		fmt.Printf("  thresholds: warning %.0fW, critical %.0fW\n",
			cfg.Display.Thresholds.Warning, cfg.Display.Thresholds.Critical)
		fmt.Printf("  max_scale: %.0fW\n", cfg.Display.MaxScale)
		fmt.Println("history:")
		fmt.Printf("  capacity: %d\n", cfg.History.Capacity)
		fmt.Printf("  file: %s\n", orUnset(cfg.History.File))
		fmt.Println("logging:")
		fmt.Printf("  level: %s\n", cfg.Logging.Level)

		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
