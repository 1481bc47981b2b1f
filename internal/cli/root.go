// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-nsm.
//
// go-nsm is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package cli implements the nsmctl command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-nsm/internal/config"
	"github.com/jeremyhahn/go-nsm/pkg/logging"
	"github.com/jeremyhahn/go-nsm/pkg/metrics"
	"github.com/jeremyhahn/go-nsm/pkg/nsm"
)

var (
	// Global CLI flags
	flagConfigFile   string
	flagDevice       string
	flagOutputFormat string
	flagVerbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nsmctl",
	Short: "nsmctl - Nitro Secure Module device tool",
	Long: `nsmctl talks to the Nitro Secure Module character device from inside
an enclave: query the module, manage platform configuration registers,
request signed attestation documents and draw hardware entropy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "",
		"config file (default is built-in defaults plus NSM_* environment)")
	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "",
		"NSM character device path (default /dev/nsm)")
	rootCmd.PersistentFlags().StringVarP(&flagOutputFormat, "output", "o", "text",
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(attestCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(pcrCmd)
}

// loadConfig merges the config file, environment and command line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return nil, err
	}
	if flagDevice != "" {
		cfg.Device.Path = flagDevice
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openSession opens the NSM device per the merged configuration.
func openSession() (*nsm.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Debug())
	logging.SetDefaultLogger(logger)
	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	session, err := nsm.OpenSession(&nsm.DevicePlatform{
		Path:   cfg.Device.Path,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening NSM device %s: %w", cfg.Device.Path, err)
	}
	return session, nil
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(flagOutputFormat, os.Stderr)
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if flagVerbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
