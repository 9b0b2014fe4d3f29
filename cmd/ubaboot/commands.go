package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ubaboot/bootloader"
	"github.com/moffa90/go-ubaboot/protocol"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the device signature and fuses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProgrammer(cmd, nil, func(ctx context.Context, prog *bootloader.Programmer, sig protocol.Signature) error {
			fuses, err := prog.ReadFuses(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signature: %s\n", sig)
			fmt.Fprintf(out, "Fuses:     %s\n", fuses)
			return nil
		})
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Leave the bootloader and start the application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProgrammer(cmd, nil, func(ctx context.Context, prog *bootloader.Programmer, _ protocol.Signature) error {
			return prog.Reboot(ctx)
		})
	},
}

var readCmd = &cobra.Command{
	Use:   "read flash|eeprom [file]",
	Short: "Dump a memory space as Intel-HEX",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		trim, _ := cmd.Flags().GetBool("trim")
		start, _ := cmd.Flags().GetInt("start")
		count, _ := cmd.Flags().GetInt("count")

		return withProgrammer(cmd, nil, func(ctx context.Context, prog *bootloader.Programmer, _ protocol.Signature) error {
			space, err := spaceArg(prog, args[0])
			if err != nil {
				return err
			}

			dump := func(out io.Writer) error {
				n, err := prog.Dump(ctx, space, out, bootloader.DumpOptions{
					Start:      start,
					Count:      count,
					TrimErased: trim,
				})
				if err != nil {
					return err
				}

				logger.Info("read complete", "space", space.Name, "bytes", n)
				return nil
			}

			if len(args) == 2 {
				return writeFile(args[1], createFile, dump)
			}
			return dump(cmd.OutOrStdout())
		})
	},
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeFile creates path, passes it to write and closes it. A close error is
// returned; the file may be truncated.
func writeFile(path string, create func(string) (io.WriteCloser, error), write func(io.Writer) error) error {
	f, err := create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

var writeCmd = &cobra.Command{
	Use:   "write flash|eeprom file.hex",
	Short: "Program, verify and reboot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		noReboot, _ := cmd.Flags().GetBool("no-reboot")
		extra := []bootloader.Option{bootloader.WithReboot(!noReboot)}

		return withProgrammer(cmd, extra, func(ctx context.Context, prog *bootloader.Programmer, _ protocol.Signature) error {
			space, err := spaceArg(prog, args[0])
			if err != nil {
				return err
			}

			img, err := prog.LoadFile(space, args[1])
			if err != nil {
				return err
			}

			res, err := prog.ProgramSpace(ctx, space, img)
			if err != nil {
				return err
			}

			logger.Info("write complete",
				"space", res.Space,
				"bytes", res.BytesWritten,
				"verified", res.Verified,
				"rebooted", res.Rebooted,
				"elapsed", res.Elapsed.String())
			return nil
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify flash|eeprom file.hex",
	Short: "Compare device memory with a HEX file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProgrammer(cmd, nil, func(ctx context.Context, prog *bootloader.Programmer, _ protocol.Signature) error {
			space, err := spaceArg(prog, args[0])
			if err != nil {
				return err
			}

			img, err := prog.LoadFile(space, args[1])
			if err != nil {
				return err
			}

			res, err := prog.Verify(ctx, space, img)
			if err != nil {
				return err
			}

			logger.Info("verify complete", "space", res.Space, "bytes", res.HighWaterMark)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, rebootCmd, readCmd, writeCmd, verifyCmd)

	readCmd.Flags().Bool("trim", false, "Drop trailing erased (0xFF) bytes")
	readCmd.Flags().Int("start", 0, "First address to read")
	readCmd.Flags().Int("count", 0, "Number of bytes to read (0 reads to the end)")

	writeCmd.Flags().Bool("no-reboot", false, "Stay in the bootloader after writing")
}
