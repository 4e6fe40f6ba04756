package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orenlev/tabwell/internal/config"
	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/stacks"
	"github.com/orenlev/tabwell/internal/storage"
	"github.com/orenlev/tabwell/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		log.Fatalf("mkdir storage dir: %v", err)
	}

	// the terminal is taken over by the program; log to a file next to the db
	logFile, err := tea.LogToFile(filepath.Join(filepath.Dir(cfg.Storage.Path), "tabwell.log"), "tabwell")
	if err == nil {
		defer logFile.Close()
	}

	store, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	registry := editor.NewRegistry()
	editor.RegisterBuiltins(registry)

	// explicit files on the command line replace the previous session
	files := os.Args[1:]
	model := stacks.NewModel(store, registry, tui.NewConfigPolicy(cfg), stacks.ModelOptions{
		SkipRestore: len(files) > 0,
		Logf:        log.Printf,
	})
	if len(files) > 0 {
		g := model.OpenGroup("", true, -1)
		for _, path := range files {
			g.OpenEditor(editor.NewFileInput(path), stacks.OpenOptions{Pinned: true, Active: true, Index: -1})
		}
	}

	p := tea.NewProgram(tui.New(cfg, model), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}

	if err := model.Save(); err != nil {
		log.Printf("save session: %v", err)
	}
}
