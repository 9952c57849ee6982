// Package discovery locates power sources on the local network: Home
// Assistant hubs via mDNS and Kasa smart plugs via a UDP broadcast probe.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/naveen/wattwise/internal/logger"
	"github.com/naveen/wattwise/internal/source"
)

const (
	// haService is the mDNS service type Home Assistant advertises.
	haService = "_home-assistant._tcp"
	haDomain  = "local."
)

// Hub is a discovered Home Assistant instance.
type Hub struct {
	Name string
	Host string
	Addr net.IP
	Port int
}

// URL returns the base URL for API calls against the hub.
func (h Hub) URL() string {
	return fmt.Sprintf("http://%s:%d", h.Addr, h.Port)
}

// Hubs browses mDNS for Home Assistant instances until the timeout
// expires.
func Hubs(ctx context.Context, timeout time.Duration) ([]Hub, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("create mdns resolver: %w", err)
	}

	// Buffered so the resolver never blocks on a slow consumer.
	entries := make(chan *zeroconf.ServiceEntry, 10)
	done := make(chan []Hub, 1)
	go func() {
		var hubs []Hub
		for entry := range entries {
			hub, ok := hubFromEntry(entry)
			if !ok {
				continue
			}
			logger.Debug().
				Str("name", hub.Name).
				Str("address", hub.Addr.String()).
				Int("port", hub.Port).
				Msg("discovered home assistant hub")
			hubs = append(hubs, hub)
		}
		done <- hubs
	}()

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := resolver.Browse(browseCtx, haService, haDomain, entries); err != nil {
		return nil, fmt.Errorf("browse %s: %w", haService, err)
	}

	<-browseCtx.Done()
	return <-done, nil
}

// hubFromEntry converts an mDNS entry to a Hub, preferring IPv4.
func hubFromEntry(entry *zeroconf.ServiceEntry) (Hub, bool) {
	if entry == nil {
		return Hub{}, false
	}

	var addr net.IP
	switch {
	case len(entry.AddrIPv4) > 0:
		addr = entry.AddrIPv4[0]
	case len(entry.AddrIPv6) > 0:
		addr = entry.AddrIPv6[0]
	default:
		return Hub{}, false
	}

	return Hub{
		Name: entry.Instance,
		Host: entry.HostName,
		Addr: addr,
		Port: entry.Port,
	}, true
}

// Plug is a discovered Kasa smart plug.
type Plug struct {
	Alias    string
	Model    string
	Feature  string
	Addr     net.IP
	HasMeter bool
}

// Plugs broadcasts a sysinfo probe and collects replies until the
// timeout expires.
func Plugs(ctx context.Context, timeout time.Duration) ([]Plug, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("open udp socket: %w", err)
	}
	defer conn.Close()

	probe := source.ScrambleDatagram([]byte(`{"system":{"get_sysinfo":{}}}`))
	broadcast := &net.UDPAddr{IP: net.IPv4bcast, Port: source.KasaPort}
	if _, err := conn.WriteTo(probe, broadcast); err != nil {
		return nil, fmt.Errorf("send broadcast probe: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)

	var plugs []Plug
	seen := make(map[string]bool)
	buf := make([]byte, 4096)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			// Deadline expiry is the normal exit.
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return plugs, nil
			}
			return plugs, err
		}

		udpAddr, ok := from.(*net.UDPAddr)
		if !ok || seen[udpAddr.IP.String()] {
			continue
		}
		plug, err := parsePlugReply(buf[:n])
		if err != nil {
			logger.Debug().Err(err).Str("from", from.String()).Msg("ignoring malformed reply")
			continue
		}
		plug.Addr = udpAddr.IP
		seen[udpAddr.IP.String()] = true
		logger.Debug().
			Str("alias", plug.Alias).
			Str("model", plug.Model).
			Str("address", plug.Addr.String()).
			Msg("discovered kasa plug")
		plugs = append(plugs, plug)
	}
}

// parsePlugReply decodes a scrambled sysinfo reply.
func parsePlugReply(datagram []byte) (Plug, error) {
	var reply struct {
		System struct {
			Sysinfo struct {
				Alias   string `json:"alias"`
				Model   string `json:"model"`
				Feature string `json:"feature"`
			} `json:"get_sysinfo"`
		} `json:"system"`
	}
	if err := json.Unmarshal(source.UnscrambleDatagram(datagram), &reply); err != nil {
		return Plug{}, fmt.Errorf("decode sysinfo reply: %w", err)
	}

	info := reply.System.Sysinfo
	if info.Alias == "" && info.Model == "" {
		return Plug{}, fmt.Errorf("reply carries no sysinfo")
	}
	return Plug{
		Alias:    info.Alias,
		Model:    info.Model,
		Feature:  info.Feature,
		HasMeter: hasFeature(info.Feature, "ENE"),
	}, nil
}

func hasFeature(featureList, feature string) bool {
	start := 0
	for i := 0; i <= len(featureList); i++ {
		if i == len(featureList) || featureList[i] == ':' {
			if featureList[start:i] == feature {
				return true
			}
			start = i + 1
		}
	}
	return false
}
