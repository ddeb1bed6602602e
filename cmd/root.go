package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verdra/cadesk/internal/api"
	"github.com/verdra/cadesk/internal/config"
	"github.com/verdra/cadesk/internal/db"
	"github.com/verdra/cadesk/internal/session"
	"github.com/verdra/cadesk/pkg/desk"
)

var (
	version string

	flagServer string
	flagToken  string
	flagDebug  bool
	flagPanel  panelFlag
)

// panelFlag parses --panel into a desk panel.
type panelFlag struct {
	panel desk.Panel
}

var _ pflag.Value = (*panelFlag)(nil)

func (f *panelFlag) String() string { return strings.ToLower(f.panel.String()) }

func (f *panelFlag) Type() string { return "panel" }

func (f *panelFlag) Set(s string) error {
	switch strings.ToLower(s) {
	case "users":
		f.panel = desk.PanelUsers
	case "deposits":
		f.panel = desk.PanelDeposits
	case "contacts":
		f.panel = desk.PanelContacts
	default:
		return fmt.Errorf("unknown panel %q (users, deposits, contacts)", s)
	}
	return nil
}

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "cadesk",
	Short: "Backoffice review desk for the allowance platform",
	Long: `cadesk - terminal review desk for the carbon allowance platform.

Running it without a subcommand opens the interactive desk: onboarding
reviews, deposit confirmations, and contact requests in one place.
Subcommands print the same queues as plain listings for scripts.`,
	RunE: runDesk,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs to the cache directory")
	rootCmd.Flags().Var(&flagPanel, "panel", "Panel to open on startup (users, deposits, contacts)")
}

func runDesk(cmd *cobra.Command, args []string) error {
	cfgDir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := session.GetOrCreate(cfgDir)
	if err != nil {
		return fmt.Errorf("start review session: %w", err)
	}

	if flagDebug {
		if closeLog, err := setupDebugLog(cfgDir); err == nil {
			defer closeLog()
		}
	}

	client := api.NewClient(api.Config{
		BaseURL:   cfg.ServerURL,
		Token:     cfg.Token,
		SessionID: sess.ID,
	})

	// The cache is an optimization; the desk works without it.
	cache, err := db.Open(cfgDir)
	if err != nil {
		slog.Warn("local cache unavailable", "err", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	m := desk.New(client, cache, cfg, cfgDir, sess.ID)
	m.ActivePanel = flagPanel.panel
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run desk: %w", err)
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (string, *config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", nil, fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return "", nil, fmt.Errorf("load config: %w", err)
	}
	if flagServer != "" {
		cfg.ServerURL = flagServer
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if cfg.ServerURL == "" {
		return "", nil, fmt.Errorf("no server configured: set server_url in %s or pass --server", filepath.Join(dir, "config.json"))
	}
	return dir, cfg, nil
}

// newClient builds an API client for the listing subcommands.
func newClient() (*api.Client, error) {
	cfgDir, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	sess, err := session.GetOrCreate(cfgDir)
	if err != nil {
		return nil, fmt.Errorf("start review session: %w", err)
	}
	return api.NewClient(api.Config{
		BaseURL:   cfg.ServerURL,
		Token:     cfg.Token,
		SessionID: sess.ID,
	}), nil
}

// setupDebugLog routes slog to a file so TUI output stays clean.
func setupDebugLog(dir string) (func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}
