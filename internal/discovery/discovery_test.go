package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"

	"github.com/naveen/wattwise/internal/source"
)

func TestHubFromEntry(t *testing.T) {
	t.Run("prefers ipv4", func(t *testing.T) {
		entry := &zeroconf.ServiceEntry{
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
			AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			Port:     8123,
		}
		entry.Instance = "Home"
		entry.HostName = "homeassistant.local."

		hub, ok := hubFromEntry(entry)
		if !ok {
			t.Fatal("expected a hub")
		}
		if hub.Addr.String() != "192.168.1.10" {
			t.Errorf("expected ipv4 address, got %s", hub.Addr)
		}
		if hub.Name != "Home" || hub.Port != 8123 {
			t.Errorf("unexpected hub: %+v", hub)
		}
		if hub.URL() != "http://192.168.1.10:8123" {
			t.Errorf("unexpected url: %s", hub.URL())
		}
	})

	t.Run("falls back to ipv6", func(t *testing.T) {
		entry := &zeroconf.ServiceEntry{
			AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			Port:     8123,
		}

		hub, ok := hubFromEntry(entry)
		if !ok {
			t.Fatal("expected a hub")
		}
		if hub.Addr.String() != "fe80::1" {
			t.Errorf("expected ipv6 address, got %s", hub.Addr)
		}
	})

	t.Run("rejects addressless entries", func(t *testing.T) {
		if _, ok := hubFromEntry(&zeroconf.ServiceEntry{}); ok {
			t.Error("expected no hub without addresses")
		}
		if _, ok := hubFromEntry(nil); ok {
			t.Error("expected no hub from nil entry")
		}
	})
}

func TestParsePlugReply(t *testing.T) {
	t.Run("parses a metering plug", func(t *testing.T) {
		reply := source.ScrambleDatagram([]byte(
			`{"system":{"get_sysinfo":{"alias":"Desk","model":"HS110(US)","feature":"TIM:ENE"}}}`))

		plug, err := parsePlugReply(reply)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plug.Alias != "Desk" || plug.Model != "HS110(US)" {
			t.Errorf("unexpected plug: %+v", plug)
		}
		if !plug.HasMeter {
			t.Error("expected metering capability")
		}
	})

	t.Run("flags plugs without a meter", func(t *testing.T) {
		reply := source.ScrambleDatagram([]byte(
			`{"system":{"get_sysinfo":{"alias":"Lamp","model":"HS100(US)","feature":"TIM"}}}`))

		plug, err := parsePlugReply(reply)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plug.HasMeter {
			t.Error("expected no metering capability")
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := parsePlugReply([]byte("not a datagram")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("rejects empty sysinfo", func(t *testing.T) {
		reply := source.ScrambleDatagram([]byte(`{"system":{"get_sysinfo":{}}}`))
		if _, err := parsePlugReply(reply); err == nil {
			t.Error("expected an error")
		}
	})
}
