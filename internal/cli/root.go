// Package cli implements the musicsite command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/llehouerou/musicsite/internal/config"
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"web-root":      "server.web_root",
	"media-root":    "server.media_root",
	"store":         "store.backend",
	"store-path":    "store.path",
	"blobs":         "blobs.backend",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"lrclib":        "lyrics.lrclib",
	"watch":         "lyrics.watch",
	"max-upload-mb": "server.max_upload_mb",
	"mpris":         "server.mpris",
	"notify":        "server.notify",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "musicsite",
		Short:         "musicsite is a browser music player with lyrics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ~/.config/musicsite/config.toml, ./config.toml)")
	pf.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("store", "", "preference store backend: sqlite or redis")
	pf.String("store-path", "", "sqlite database file")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: console or json")

	root.AddCommand(newServeCmd(), newLyricsCmd(), newHistoryCmd(), newStateCmd())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration, layering the flags that were set on
// cmd over every other source.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	return config.Load(config.LoadOptions{
		File:      file,
		EnvFile:   envFile,
		Overrides: overrides(cmd.Flags()),
	})
}

// overrides collects the changed flags as flat config keys.
func overrides(fs *pflag.FlagSet) map[string]any {
	out := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := fs.GetBool(f.Name)
			out[key] = v
		case "int64":
			v, _ := fs.GetInt64(f.Name)
			out[key] = v
		default:
			out[key] = f.Value.String()
		}
	})
	return out
}
