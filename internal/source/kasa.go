package source

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	// KasaPort is the TCP port Kasa smart plugs listen on.
	KasaPort = 9999

	kasaDialTimeout = 10 * time.Second
	kasaIOTimeout   = 5 * time.Second
)

// Kasa reads energy-meter telemetry directly from a TP-Link Kasa smart
// plug over its local TCP protocol.
type Kasa struct {
	addr  string
	alias string
}

// NewKasa creates a Kasa source for the device at ip.
func NewKasa(ip, alias string) *Kasa {
	return &Kasa{
		addr:  net.JoinHostPort(ip, fmt.Sprintf("%d", KasaPort)),
		alias: alias,
	}
}

// Name implements Source.
func (k *Kasa) Name() string {
	return "Kasa Smart Plug"
}

// SupportsCurrent implements Source. The emeter reports amperage alongside
// power, so current is always available on metering plugs.
func (k *Kasa) SupportsCurrent() bool {
	return true
}

// Validate connects to the plug and confirms it has an energy meter.
func (k *Kasa) Validate(ctx context.Context) error {
	var info struct {
		System struct {
			Sysinfo struct {
				Alias   string `json:"alias"`
				Model   string `json:"model"`
				Feature string `json:"feature"`
			} `json:"get_sysinfo"`
		} `json:"system"`
	}
	if err := k.roundTrip(ctx, `{"system":{"get_sysinfo":{}}}`, &info); err != nil {
		return err
	}

	// Metering plugs advertise ENE in their feature list. Plugs that omit
	// the field entirely are given the benefit of the doubt; the emeter
	// query itself is the final arbiter.
	feature := info.System.Sysinfo.Feature
	if feature != "" && !containsFeature(feature, "ENE") {
		return fmt.Errorf("%w: device %q (%s) has no energy meter",
			ErrUnavailable, info.System.Sysinfo.Alias, info.System.Sysinfo.Model)
	}
	return nil
}

// Power implements Source.
func (k *Kasa) Power(ctx context.Context) (float64, error) {
	rt, err := k.emeterRealtime(ctx)
	if err != nil {
		return 0, err
	}
	return rt.watts()
}

// Current implements Source.
func (k *Kasa) Current(ctx context.Context) (float64, error) {
	rt, err := k.emeterRealtime(ctx)
	if err != nil {
		return 0, err
	}
	return rt.amps()
}

// emeterRealtime covers both payload generations: newer firmware reports
// milliunit integers (power_mw), older firmware plain floats (power).
type emeterRealtime struct {
	PowerMW   *float64 `json:"power_mw"`
	CurrentMA *float64 `json:"current_ma"`
	Power     *float64 `json:"power"`
	Current   *float64 `json:"current"`
}

func (rt *emeterRealtime) watts() (float64, error) {
	if rt.PowerMW != nil {
		return *rt.PowerMW / 1000, nil
	}
	if rt.Power != nil {
		return *rt.Power, nil
	}
	return 0, fmt.Errorf("%w: emeter response has no power field", ErrInvalidReading)
}

func (rt *emeterRealtime) amps() (float64, error) {
	if rt.CurrentMA != nil {
		return *rt.CurrentMA / 1000, nil
	}
	if rt.Current != nil {
		return *rt.Current, nil
	}
	return 0, fmt.Errorf("%w: emeter response has no current field", ErrInvalidReading)
}

func (k *Kasa) emeterRealtime(ctx context.Context) (*emeterRealtime, error) {
	var resp struct {
		Emeter struct {
			Realtime emeterRealtime `json:"get_realtime"`
		} `json:"emeter"`
	}
	if err := k.roundTrip(ctx, `{"emeter":{"get_realtime":{}}}`, &resp); err != nil {
		return nil, err
	}
	return &resp.Emeter.Realtime, nil
}

// roundTrip sends one command to the plug and decodes the reply.
func (k *Kasa) roundTrip(ctx context.Context, command string, out interface{}) error {
	dialer := net.Dialer{Timeout: kasaDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", k.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(kasaIOTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(encryptKasa([]byte(command))); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var length uint32
	if err := binary.Read(conn, binary.BigEndian, &length); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if length == 0 || length > 1<<20 {
		return fmt.Errorf("%w: implausible response length %d", ErrInvalidReading, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := json.Unmarshal(decryptKasaPayload(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}
	return nil
}

// The Kasa local protocol obfuscates JSON payloads with an autokey XOR
// cipher (initial key 171) behind a 4-byte big-endian length prefix.

func encryptKasa(plaintext []byte) []byte {
	out := make([]byte, 4+len(plaintext))
	binary.BigEndian.PutUint32(out, uint32(len(plaintext)))

	key := byte(171)
	for i, b := range plaintext {
		key ^= b
		out[4+i] = key
	}
	return out
}

// ScrambleDatagram obfuscates a payload for the UDP variant of the
// protocol, which carries no length prefix. Used by discovery probes.
func ScrambleDatagram(plaintext []byte) []byte {
	out := make([]byte, len(plaintext))
	key := byte(171)
	for i, b := range plaintext {
		key ^= b
		out[i] = key
	}
	return out
}

// UnscrambleDatagram reverses ScrambleDatagram.
func UnscrambleDatagram(ciphertext []byte) []byte {
	return decryptKasaPayload(ciphertext)
}

func decryptKasaPayload(ciphertext []byte) []byte {
	out := make([]byte, len(ciphertext))
	key := byte(171)
	for i, b := range ciphertext {
		out[i] = key ^ b
		key = b
	}
	return out
}

func containsFeature(featureList, feature string) bool {
	// Feature lists look like "TIM:ENE".
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
