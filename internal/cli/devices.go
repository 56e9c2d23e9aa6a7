package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seagrayinc/hidmacro/internal/config"
	"github.com/seagrayinc/hidmacro/internal/hid"
	"github.com/seagrayinc/hidmacro/internal/source"
)

type deviceEntry struct {
	hid.Info
	Symbol string `json:"symbol,omitempty"`
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List HID devices",
	Long:  `List every HID interface the backend can see. Interfaces picked up by the config's sources show the symbol they produce.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var descriptors []source.Descriptor
		name := backend
		if cfg, err := config.Load(configPath); err != nil {
			slog.Debug("listing without config", slog.Any("error", err))
			descriptors = (&config.Config{Sources: config.DefaultSources}).Descriptors()
		} else {
			descriptors = cfg.Descriptors()
			if name == "" {
				name = cfg.Backend
			}
		}

		mgr, err := hid.NewManager(name)
		if err != nil {
			return err
		}
		infos, err := mgr.List()
		if err != nil {
			return err
		}

		entries := make([]deviceEntry, 0, len(infos))
		for _, info := range infos {
			entry := deviceEntry{Info: info}
			for _, d := range descriptors {
				if d.Accepts(info) {
					entry.Symbol = string(d.Symbol)
					break
				}
			}
			entries = append(entries, entry)
		}
		return printJson(cmd.OutOrStdout(), entries)
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
