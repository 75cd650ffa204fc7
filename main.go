package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/config"
	"github.com/sadopc/fitgrid/internal/log"
	"github.com/sadopc/fitgrid/internal/store"
	"github.com/sadopc/fitgrid/internal/tui"
)

func main() {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(cfgPath), "fitgrid.log")
	}
	if err := log.Init(logPath); err != nil {
		// Logging is best effort; the app works without it.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if cfg.Debug {
		log.SetLevel(log.LevelDebug)
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	sess, err := s.GetSession()
	if err != nil {
		log.Error("restore session", err)
	}

	c := cache.New(s)
	client := api.NewClient(cfg.APIBaseURL, sess, c, cfg.CacheTTL())

	app := tui.NewApp(s, client, c, cfg, cfgPath)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
