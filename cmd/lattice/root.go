package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is an incremental dependency-graph state engine",
	Long: `Lattice evaluates graphs of named values declared in a YAML or JSON manifest.
After an edit, only the nodes the edit actually affects are recomputed.

Flags left unset fall back to LATTICE_* environment variables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringP("manifest", "m", "", "Manifest file (default \"lattice.yaml\", env LATTICE_MANIFEST)")
	pf.String("resolvers", "", "Resolver config (default: resolvers.yaml next to the manifest)")
	pf.String("sessions-dir", "", "Directory of session files, or :memory: (default \".lattice/sessions\")")
	pf.String("redis-url", "", "Store sessions in Redis, e.g. redis://localhost:6379/0")
	pf.Duration("session-ttl", 0, "Expiry of Redis sessions (0 keeps them)")
	pf.Duration("grace-period", 0, "Time a cancelled resolver process gets before it is killed")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Bool("log-json", false, "Write logs as JSON")
	pf.Bool("debug", false, "Log every pass, node and resolver call to stderr")
	pf.String("store-key", "", "Base64 AES-256 key to encrypt stored sessions")
	pf.StringSlice("mask", nil, "Patterns of node ids whose values are masked when stored")
}

// loadOptions reads the persistent flags and fills the gaps from the environment.
func loadOptions(cmd *cobra.Command) cli.Options {
	f := cmd.Flags()
	var opts cli.Options
	opts.Manifest, _ = f.GetString("manifest")
	opts.Resolvers, _ = f.GetString("resolvers")
	opts.SessionsDir, _ = f.GetString("sessions-dir")
	opts.RedisURL, _ = f.GetString("redis-url")
	opts.SessionTTL, _ = f.GetDuration("session-ttl")
	opts.GracePeriod, _ = f.GetDuration("grace-period")
	opts.LogLevel, _ = f.GetString("log-level")
	opts.LogJSON, _ = f.GetBool("log-json")
	opts.Debug, _ = f.GetBool("debug")
	opts.StoreKey, _ = f.GetString("store-key")
	opts.Mask, _ = f.GetStringSlice("mask")
	return opts.WithEnv()
}

// mustOpenApp assembles the app or exits.
func mustOpenApp(cmd *cobra.Command) *cli.App {
	app, err := cli.NewApp(loadOptions(cmd))
	if err != nil {
		fmt.Printf("Error initializing lattice: %v\n", err)
		os.Exit(1)
	}
	return app
}
