package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seagrayinc/hidmacro/internal/config"
	"github.com/seagrayinc/hidmacro/internal/hid"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config file and print the binding table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg, err := config.Load(configPath)
		if config.IsValidation(err) {
			var verr *config.ValidationError
			errors.As(err, &verr)
			for _, le := range verr.Errors {
				fmt.Fprintf(out, "  %s\n", le)
			}
			return fmt.Errorf("%s: %d problem(s)", configPath, len(verr.Errors))
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "captureDelay: %s, beepLength: %s, tick: %s\n", cfg.CaptureDelayDuration(), cfg.BeepLengthDuration(), cfg.TickIntervalDuration())
		fmt.Fprintln(out, "sources:")
		for _, d := range cfg.Descriptors() {
			fmt.Fprintf(out, "  %s usage 0x%04X/0x%04X signature %s -> %s\n", d.Product, d.UsagePage, d.Usage, hid.FormatReport(d.Signature), d.Symbol)
		}
		fmt.Fprintln(out, "bindings (first match wins):")
		for i, r := range cfg.Rules() {
			fmt.Fprintf(out, "  %d. %s\n", i+1, r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
