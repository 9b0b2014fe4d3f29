// Command ubaboot programs AVR devices running the ubaboot USB bootloader.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ubaboot",
	Short:         "Flash and inspect devices running the ubaboot bootloader",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		logger = newLogger(os.Stderr, debug)

		path, _ := cmd.Flags().GetString("config")
		s, err := loadSettings(path)
		if err != nil {
			return err
		}
		if err := s.applyFlags(cmd); err != nil {
			return err
		}
		cfg = s
		return nil
	},
}

var (
	cfg    settings
	logger *zerologLogger
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().BoolP("wait", "w", false, "Wait for the device to appear")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("backend", backendLibUSB, "USB backend: libusb or softusb")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Control transfer timeout, e.g. 5s")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger == nil {
			logger = newLogger(os.Stderr, false)
		}
		logger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
