package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seagrayinc/hidmacro/internal/config"
)

const version = "dev"

var (
	verbose    bool
	configPath string
	backend    string
	waitOnExit bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hidmacro",
	Short: "Remap HID buttons and wheels to keyboard and mouse actions",
	Long: `hidmacro polls HID interfaces such as a headset's mute button and volume wheel,
collects short bursts of events and fires the keyboard or mouse action bound to the
sequence in the config file.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "HID backend (overrides the config's backend)")
	rootCmd.PersistentFlags().BoolVar(&waitOnExit, "wait-on-exit", false, "wait for Enter before exiting")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Pause keeps a console window open until the user presses Enter when
// --wait-on-exit is set.
func Pause() {
	if waitOnExit {
		pause(os.Stdin, os.Stdout)
	}
}

func pause(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "Press Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}

func printJson(w io.Writer, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
