package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"harpadeck/deckstore"
	"harpadeck/logging"
	"harpadeck/metadata"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// build flags
	fromID uint
	toID   uint

	config *HarpaConfig

	logger = logging.ZoneLogger("harpadeck")
)

const shutdownTimeout = 5 * time.Second

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "harpadeck",
	Short: "Generate one PowerPoint deck per hymn of the Harpa Cristã",
	Long: `harpadeck reads the hymns (title, verses, chorus) from a SQLite
database and writes one .pptx deck per hymn: one slide per verse, with the
chorus repeated after each verse.

Run without arguments to build every hymn of the configured range.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetVerbose(verbose)

		var err error
		config, err = LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the decks of a range of hymns",
	Long: `Writes "{id}. {title}.pptx" into the output directory for every hymn
from --from to --to (default: the configured range, 1..640).

The first failure stops the build unless deck.continueonerror is set.
Decks written before the failure are kept.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the stanzas of a hymn in slide order",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve hymns and decks over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Write(cmd.OutOrStdout())
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the anthems and verses tables",
	Args:  cobra.NoArgs,
	RunE:  runDBInit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	buildCmd.Flags().UintVar(&fromID, "from", 0, "First hymn id (default: deck.firstid)")
	buildCmd.Flags().UintVar(&toID, "to", 0, "Last hymn id (default: deck.lastid)")

	dbCmd.AddCommand(dbInitCmd)
	rootCmd.AddCommand(buildCmd, showCmd, serveCmd, configCmd, dbCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openStore() (*metadata.Store, error) {
	store, err := metadata.Open(config.Metadata.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", config.Metadata.DB, err)
	}
	return store, nil
}

func newDeckStore(store *metadata.Store) *deckstore.DeckStore {
	d := deckstore.NewDeckStore(store, config.Deck.OutputDir, config.Deck.LogoPath, config.Deck.Credit, nil)
	d.ContinueOnError = config.Deck.ContinueOnError
	return d
}

// buildRange resolves --from/--to against the configured range.
func buildRange() (first, last uint, err error) {
	first, last = config.Deck.FirstID, config.Deck.LastID
	if fromID != 0 {
		first = fromID
	}
	if toID != 0 {
		last = toID
	}
	if last < first {
		return 0, 0, fmt.Errorf("--to (%d) should be >= --from (%d)", last, first)
	}
	return first, last, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	first, last, err := buildRange()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return newDeckStore(store).BuildRange(cmd.Context(), first, last)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := metadata.ParseID(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	song, err := store.GetSong(cmd.Context(), id)
	if err != nil {
		return err
	}

	slides, maxLines := song.Reorder()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d. %s\n", song.ID, song.Title)
	fmt.Fprintf(out, "slides: %d, max lines: %d, chorus: %t\n", len(slides), maxLines, song.HasChorus())
	for i, slide := range slides {
		fmt.Fprintf(out, "\n[%d]\n%s\n", i+1, strings.ToUpper(slide))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	r, store, err := MakeRouter(config)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", config.Metadata.DB, err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    config.HttpListenAddr,
		Handler: r,
	}

	logger.WithField("addr", config.HttpListenAddr).Info("serve: listening")
	return listenAndServe(cmd.Context(), srv)
}

// listenAndServe runs srv until it fails or ctx is done. On ctx done the
// server is shut down, letting in-flight requests finish.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("serve: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown failed: %w", err)
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func runDBInit(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return err
	}

	logger.WithField("db", config.Metadata.DB).Info("db init: tables ready")
	return nil
}
