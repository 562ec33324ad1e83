package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ezmaadmin/internal/app"
	"ezmaadmin/internal/config"
	"ezmaadmin/internal/util"
	"ezmaadmin/pkg/prefs"
	"ezmaadmin/pkg/session"
)

// cli holds everything the commands share for one invocation.
type cli struct {
	app         *app.App
	session     *session.Store
	sessionPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "ezma-admin",
		Short:         "Ezma library administration from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return c.init(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config.yaml")

	rootCmd.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newBooksCmd(c),
		newBookCmd(c),
		newLibrariesCmd(c),
		newLibraryCmd(c),
		newProfileCmd(c),
	)
	return rootCmd
}

func (c *cli) init(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	util.InitLogger(cfg.LogLevel)

	requestTimeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		return err
	}
	cacheTTL, err := config.ParseCacheTTL(cfg.CacheTTL)
	if err != nil {
		return err
	}

	var prefStore prefs.Store
	if cfg.RedisAddr != "" {
		prefStore, err = prefs.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, "")
	} else {
		prefStore, err = prefs.NewFileStore(cfg.PrefsDir)
	}
	if err != nil {
		return err
	}

	c.sessionPath = filepath.Join(cfg.PrefsDir, "session.json")
	c.session = session.New()
	session.Load(c.sessionPath, c.session)

	c.app, err = app.New(app.Config{
		BaseURL:        cfg.APIBaseURL,
		RequestTimeout: requestTimeout,
		CacheTTL:       cacheTTL,
		Prefs:          prefStore,
		Session:        c.session,
		OnAuthExpired:  c.authExpired,
	})
	return err
}

// authExpired is the login boundary: the session is gone, so the persisted
// copy goes too and the user is told to sign in again.
func (c *cli) authExpired() {
	_ = session.Remove(c.sessionPath)
	fmt.Fprintln(os.Stderr, "session expired, run 'ezma-admin login'")
}

// requireAuth is the route guard: protected commands refuse to run, and
// issue no fetch, without an authenticated session.
func (c *cli) requireAuth(*cobra.Command, []string) error {
	if !c.session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'ezma-admin login'")
	}
	return nil
}
