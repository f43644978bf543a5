package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"collectkit/lib/configutil"
	"collectkit/lib/restyutil"
	"collectkit/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "collect-cli",
	Short: "collect-cli issues one-off API dispatches and page fetches through the collectkit session layer.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		err := telemetry.SetupFromEnv(cmd.Context(), "collect-cli")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "failed to set up telemetry:", err)
			os.Exit(1)
		}
		telemetry.InstrumentPerfStats(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := telemetry.Shutdown(cmd.Context()); err != nil {
			slog.Warn("failed to shut down telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and HTTP transcripts")
}

// transcriptOutput returns a per-request HTTP transcript sink under the
// system temp dir, or nil when not running verbose.
func transcriptOutput(name string) restyutil.InstrumentOutput {
	if !verbose {
		return nil
	}
	return restyutil.NewFilesystemOutput(filepath.Join(os.TempDir(), "collect-cli-transcripts", name))
}

// config is read from collectkit.json5 found anywhere up the tree from the
// cwd; flags win over config values.
type config struct {
	BaseUrl   string            `json:"base_url"`
	Token     string            `json:"token"`
	Username  string            `json:"username"`
	Password  string            `json:"password"`
	UserAgent string            `json:"user_agent"`
	Proxies   map[string]string `json:"proxies"`
}

func loadConfig() config {
	cfg, err := configutil.ReadRecursively[config]("collectkit.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to read collectkit.json5:", err)
		os.Exit(1)
	}
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
