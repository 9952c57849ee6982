package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveen/wattwise/internal/discovery"
)

var discoverTimeout time.Duration

// discoverCmd scans the local network for usable sources.
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Home Assistant hubs and Kasa plugs on the network",
	Long: `Scan the local network for power sources.

Home Assistant instances are found via mDNS; Kasa smart plugs answer a
UDP broadcast probe. Results include the values to put in your config.

Examples:
  wattwise discover
  wattwise discover --timeout 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		fmt.Println("Scanning for Home Assistant hubs...")
		hubs, err := discovery.Hubs(ctx, discoverTimeout)
		if err != nil {
			fmt.Printf("  mDNS browse failed: %v\n", err)
		} else if len(hubs) == 0 {
			fmt.Println("  none found")
		}
		for _, hub := range hubs {
			fmt.Printf("  %s\n    homeassistant.host: %s\n", hub.Name, hub.URL())
		}

		fmt.Println("Scanning for Kasa smart plugs...")
		plugs, err := discovery.Plugs(ctx, discoverTimeout)
		if err != nil {
			fmt.Printf("  broadcast probe failed: %v\n", err)
		} else if len(plugs) == 0 {
			fmt.Println("  none found")
		}
		for _, plug := range plugs {
			meter := "no energy meter"
			if plug.HasMeter {
				meter = "energy meter"
			}
			fmt.Printf("  %s (%s, %s)\n    kasa.device_ip: %s\n", plug.Alias, plug.Model, meter, plug.Addr)
		}

		return nil
	},
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 5*time.Second, "how long to wait for replies")
	rootCmd.AddCommand(discoverCmd)
}
