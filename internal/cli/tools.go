package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/musicsite/internal/history"
	"github.com/llehouerou/musicsite/internal/lyrics"
	"github.com/llehouerou/musicsite/internal/state"
)

func newLyricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lyrics <file|url>",
		Short: "Parse an LRC file and print its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readLyrics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTimeline(cmd.OutOrStdout(), lyrics.Parse(raw))
			return nil
		},
	}
}

func readLyrics(ctx context.Context, src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return lyrics.NewHTTPFetcher(0).Fetch(ctx, src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printTimeline(w io.Writer, tl lyrics.Timeline) {
	for _, meta := range [][2]string{{"title", tl.Title}, {"artist", tl.Artist}, {"album", tl.Album}} {
		if meta[1] != "" {
			fmt.Fprintf(w, "%s: %s\n", meta[0], meta[1])
		}
	}
	fmt.Fprintf(w, "status: %s, %d lines", tl.Status, len(tl.Lines))
	if tl.Degraded > 0 {
		fmt.Fprintf(w, ", %d malformed timestamps", tl.Degraded)
	}
	fmt.Fprintln(w)
	for _, l := range tl.Lines {
		fmt.Fprintf(w, "[%s] %s\n", formatTimestamp(l.Time), l.Text)
	}
}

// formatTimestamp renders seconds as mm:ss.xx.
func formatTimestamp(sec float64) string {
	cs := int64(sec*100 + 0.5)
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, cs/100%60, cs%100)
}

// withStore runs fn against the configured preference store.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st state.Interface) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the play history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, st state.Interface) error {
				h := history.New(st)
				if err := h.Load(ctx); err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, e := range h.Entries() {
					played := time.UnixMilli(e.Timestamp).Format(time.DateTime)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", played, e.Title, e.URL)
				}
				return tw.Flush()
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget every played track",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, st state.Interface) error {
				return history.New(st).Clear(ctx)
			})
		},
	})
	return cmd
}

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Move saved preferences in and out of the store",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the saved values as a JSON object",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, st state.Interface) error {
				out := make(map[string]string)
				for _, key := range state.KnownKeys {
					v, ok, err := st.Get(ctx, key)
					if err != nil {
						return err
					}
					if ok {
						out[key] = v
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file|->",
		Short: "Load values exported from a page's localStorage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, st state.Interface) error {
				if err := st.SetMany(ctx, values); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d values\n", len(values))
				return nil
			})
		},
	})
	return cmd
}

// readValues reads a JSON object of known keys. Unknown keys are rejected
// so a typo does not silently vanish.
func readValues(stdin io.Reader, src string) (map[string]string, error) {
	var r io.Reader = stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var values map[string]string
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	for key := range values {
		if !slices.Contains(state.KnownKeys, key) {
			return nil, fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(state.KnownKeys, ", "))
		}
	}
	return values, nil
}
