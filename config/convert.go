package config

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ystepanoff/loranode/protocol"
	"github.com/ystepanoff/loranode/undervoltage"
)

// Activation builds the tagged activation from the radio section.
func (l LoraConfig) Activation() (protocol.Activation, error) {
	switch l.Mode {
	case ModePreshared:
		if l.Preshared == nil {
			return protocol.Activation{}, fmt.Errorf("config: missing preshared keys")
		}
		keys := &protocol.PresharedKeys{}
		var err error
		if keys.DevAddr, err = parseDevAddr(l.Preshared.DevAddr); err != nil {
			return protocol.Activation{}, fmt.Errorf("config: dev_addr: %w", err)
		}
		if err := parseInto(keys.NwkSKey[:], l.Preshared.NwkSKey); err != nil {
			return protocol.Activation{}, fmt.Errorf("config: nwk_skey: %w", err)
		}
		if err := parseInto(keys.AppSKey[:], l.Preshared.AppSKey); err != nil {
			return protocol.Activation{}, fmt.Errorf("config: app_skey: %w", err)
		}
		return protocol.Activation{Mode: protocol.ModePreshared, Preshared: keys}, nil

	case ModeNegotiated:
		if l.Negotiated == nil {
			return protocol.Activation{}, fmt.Errorf("config: missing negotiated keys")
		}
		keys := &protocol.NegotiatedKeys{}
		if err := parseInto(keys.AppEUI[:], l.Negotiated.AppEUI); err != nil {
			return protocol.Activation{}, fmt.Errorf("config: app_eui: %w", err)
		}
		if err := parseInto(keys.DevEUI[:], l.Negotiated.DevEUI); err != nil {
			return protocol.Activation{}, fmt.Errorf("config: dev_eui: %w", err)
		}
		if err := parseInto(keys.AppKey[:], l.Negotiated.AppKey); err != nil {
			return protocol.Activation{}, fmt.Errorf("config: app_key: %w", err)
		}
		// The MAC wants EUIs least significant byte first.
		reverse(keys.AppEUI[:])
		reverse(keys.DevEUI[:])
		return protocol.Activation{Mode: protocol.ModeNegotiated, Negotiated: keys}, nil

	default:
		return protocol.Activation{Mode: protocol.ModeDisabled}, nil
	}
}

// RadioSettings returns the uplink settings.
func (l LoraConfig) RadioSettings() protocol.RadioSettings {
	return protocol.RadioSettings{
		SpreadingFactor: l.SpreadingFactor,
		TxPower:         l.TxPower,
		ADR:             l.ADR,
	}
}

// TxTimeout returns the managed-send timeout.
func (l LoraConfig) TxTimeout() time.Duration {
	return time.Duration(l.TxTimeoutMs) * time.Millisecond
}

// Thresholds returns the undervoltage bounds.
func (u UndervoltageConfig) Thresholds() undervoltage.Thresholds {
	return undervoltage.Thresholds{Disable: u.DisableMv, Enable: u.EnableMv}
}

// NewLogger builds the node logger writing to w.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	switch l.Level {
	case LevelDisabled:
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	case LevelDebug:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func parseHex(s string, n int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", protocol.ErrInvalidKey, len(b), n)
	}
	return b, nil
}

func parseInto(dst []byte, s string) error {
	b, err := parseHex(s, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func parseDevAddr(s string) (uint32, error) {
	b, err := parseHex(s, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
