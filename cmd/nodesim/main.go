//go:build !tinygo && !baremetal

// nodesim runs one boot cycle of a simulated node on the host.
//
// Each invocation is one wake period: the node boots, sends a payload,
// waits for the outcome and deep-sleeps. Deep sleep ends the process after
// the durable memory is written to the --state file, so running nodesim
// again resumes exactly where a real node would after waking up. Delete
// the state file to simulate a power loss.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ystepanoff/loranode"
	"github.com/ystepanoff/loranode/config"
	"github.com/ystepanoff/loranode/driver/stub"
	"github.com/ystepanoff/loranode/node"
	"github.com/ystepanoff/loranode/power"
	"github.com/ystepanoff/loranode/rtcmem"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   string
		statePath    string
		batteryMv    uint16
		payload      string
		maxSteps     int
		stepInterval time.Duration
		sleepSeconds uint16
		dropUplinks  bool
	)

	flagSet := pflag.NewFlagSet("nodesim", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to node YAML config (default: radio disabled)")
	flagSet.StringVar(&statePath, "state", "nodesim.state", "file holding the simulated durable memory")
	flagSet.Uint16Var(&batteryMv, "battery-mv", 4200, "simulated battery voltage in millivolts")
	flagSet.StringVar(&payload, "payload", "hello", "payload to send this wake period")
	flagSet.IntVar(&maxSteps, "max-steps", 1000, "step budget before giving up and sleeping")
	flagSet.DurationVar(&stepInterval, "step-interval", 50*time.Millisecond, "pause between steps")
	flagSet.Uint16Var(&sleepSeconds, "sleep", 600, "deep sleep duration in seconds")
	flagSet.BoolVar(&dropUplinks, "drop-uplinks", false, "simulate a network that never acknowledges")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = loranode.LoadConfig(configPath); err != nil {
			return err
		}
	}
	logger := cfg.Logging.NewLogger(os.Stderr)

	reason := node.ResetPowerOn
	if _, err := os.Stat(statePath); err == nil {
		reason = node.ResetDeepSleepWake
	}
	mem, err := rtcmem.OpenFile(statePath)
	if err != nil {
		return err
	}

	network := stub.DefaultNetwork
	network.DropUplinks = dropUplinks
	board := loranode.NewBoard(network, batteryMv)

	var syncErr error
	board.Sleeper.OnSleep = func(d time.Duration, rf power.RFMode) {
		logger.Info("deep sleep", "duration", d, "rf_disabled", rf == power.RFDisabled)
		syncErr = mem.Sync()
	}

	hw := board.Hardware(mem)
	hw.ResetReason = reason
	n, err := node.New(cfg, hw, logger)
	if err != nil {
		return err
	}

	if err := n.Setup(); err != nil {
		if errors.Is(err, node.ErrDeepSleep) {
			return syncErr
		}
		return err
	}

	done := false
	err = n.SendManaged([]byte(payload), func(ok bool, downlink []byte) {
		done = true
		logger.Info("send finished", "ok", ok, "downlink_bytes", len(downlink))
	})
	if err != nil && !errors.Is(err, loranode.ErrRadioDisabled) {
		return err
	}
	if err != nil {
		logger.Info("radio disabled, nothing to send")
		done = true
	}

	for step := 0; !done && step < maxSteps; step++ {
		if err := n.Step(); err != nil {
			if errors.Is(err, node.ErrDeepSleep) {
				return syncErr
			}
			return err
		}
		time.Sleep(stepInterval)
	}
	if !done {
		logger.Warn("step budget exhausted, abandoning send")
	}

	h := n.Health()
	logger.Info("wake period over",
		"reboots", n.Reboots(),
		"reset_reason", reason.String(),
		"battery_mv", h.Millivolts)

	_ = n.DeepSleep(sleepSeconds)
	return syncErr
}
