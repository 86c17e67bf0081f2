package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avellar/docask/internal/config"
	"github.com/avellar/docask/internal/generate"
	"github.com/avellar/docask/internal/groq"
	"github.com/avellar/docask/internal/profile"
	"github.com/avellar/docask/internal/rag"
	"github.com/avellar/docask/internal/storage"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "docask",
	Short: "Ask questions about loaded documents, personalized by user profiles",
	Long: `docask loads PDF files or web pages, keeps named user profiles with
preferences and history, and answers questions by sending the combined
document text and profile context to the Groq completion API.

Run without arguments for the interactive console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docask version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docask version %s\n", version)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(replCmd, askCmd, profileCmd, historyCmd, serveCmd, mcpCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// app bundles the wired core for in-process commands.
type app struct {
	cfg     config.Config
	service *rag.Service
	log     *storage.Store // nil when the interaction log is unavailable or disabled
}

// newApp loads config and wires the core service. withLog controls
// whether the SQLite interaction log is opened; close must be called
// when it is. A missing Groq credential is a warning, not an error:
// generation then returns guidance instead of answers.
func newApp(modelFlag string, withLog bool) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg)

	profiles := profile.NewStore(profile.FileBackend{Path: cfg.Storage.UsersFile})

	gen := generate.New(nil)
	if cfg.Groq.APIKey == "" {
		printWarning("%s", config.MissingKeyWarning())
	} else {
		client := groq.NewClientWithBaseURL(cfg.Groq.APIKey, cfg.Groq.BaseURL)
		if d, err := time.ParseDuration(cfg.Groq.Timeout); err == nil {
			client.SetTimeout(d)
		} else {
			slog.Warn("invalid groq.timeout, using default", "value", cfg.Groq.Timeout, "error", err)
		}
		gen = generate.New(client)
	}

	var log *storage.Store
	cleanup := func() {}
	if withLog {
		log, err = storage.Open(cfg.Storage.DataDir)
		if err != nil {
			printWarning("interaction log unavailable: %v", err)
			log = nil
		} else {
			store := log
			cleanup = func() {
				if err := store.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
				}
			}
		}
	}

	service := rag.New(cfg.ResolveModel(modelFlag), profiles, gen, log)
	return &app{cfg: cfg, service: service, log: log}, cleanup, nil
}

func setupLogging(cfg config.Config) {
	level := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
