package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskflow/cmd/taskflow/app"
	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/dashboard"
	"taskflow/internal/logging"
	"taskflow/internal/session"
)

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive TUI when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow - terminal client for the TaskFlow task manager",
	Long: `TaskFlow is a terminal client for the TaskFlow task manager.

Run without arguments to start the interactive interface: a dashboard of
task statistics and recent activity, plus team and user management for
administrators. Subcommands cover the same session from scripts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if baseURL != "" {
			cfg.API.BaseURL = baseURL
		}

		// The interactive UI logs to a file so the terminal stays clean;
		// subcommands log to stderr.
		if cmd.CalledAs() == "taskflow" {
			logger, err = logging.NewFileLogger(cfg.Logging)
		} else {
			logger, err = logging.NewConsoleLogger(verbose)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard statistics as JSON",
	RunE:  runStats,
}

var configInitCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.taskflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, statsCmd, configInitCmd)
}

// buildStack wires the client and session store from the loaded config.
func buildStack() (*api.Client, *session.Store) {
	store := &storeHolder{}
	client := api.NewClient(cfg.API.BaseURL, cfg.API.RequestTimeout(), store, logger)
	file := session.NewFile(cfg.Session.File)
	store.Store = session.NewStore(file, client, logger)
	return client, store.Store
}

// storeHolder breaks the client/store construction cycle: the client needs a
// token source before the store, which needs the client, exists.
type storeHolder struct {
	*session.Store
}

func (h *storeHolder) Token() string {
	if h.Store == nil {
		return ""
	}
	return h.Store.Token()
}

func runInteractive() error {
	client, store := buildStack()
	m := app.New(cfg, client, store, logger)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Watch the session file so logout/login from another terminal is
	// reflected immediately.
	watcher, err := session.NewWatcher(store, func() {
		p.Send(app.SessionChangedMsg{})
	}, logger)
	if err != nil {
		logger.Warn("session watcher unavailable", zap.Error(err))
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("session watcher failed to start", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	_, err = p.Run()
	return err
}

func runLogin(cmd *cobra.Command, args []string) error {
	fmt.Print("Password: ")
	var password string
	if _, err := fmt.Scanln(&password); err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	_, store := buildStack()
	ctx, cancel := signalContext()
	defer cancel()

	sess, err := store.Login(ctx, args[0], password)
	if err != nil {
		return fmt.Errorf("login failed: %s", api.UserMessage(err))
	}
	fmt.Printf("signed in as %s <%s>\n", sess.Principal.Name, sess.Principal.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, store := buildStack()
	store.Logout()
	fmt.Println("signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	_, store := buildStack()
	p, ok := store.Current()
	if !ok {
		return fmt.Errorf("not signed in")
	}
	role := "member"
	if p.IsAdmin {
		role = "admin"
	}
	fmt.Printf("%s <%s> (%s)\n", p.Name, p.Email, role)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	client, store := buildStack()
	if _, ok := store.Current(); !ok {
		return fmt.Errorf("not signed in")
	}

	ctx, cancel := signalContext()
	defer cancel()

	stats, err := client.FetchDashboardStats(ctx)
	if err != nil {
		if api.IsAuth(err) {
			store.Logout()
			return fmt.Errorf("session expired, please sign in again")
		}
		return fmt.Errorf("failed to fetch stats: %s", api.UserMessage(err))
	}

	out := struct {
		Cards  [4]dashboard.Card `json:"cards"`
		Recent int               `json:"recentTasks"`
	}{Cards: dashboard.Cards(stats), Recent: len(stats.Last10)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, cfg.API.RequestTimeout())
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
