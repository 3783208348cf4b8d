package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/bootstrap"
	"docqa/internal/config"
	"docqa/internal/loader"
	"docqa/internal/summarizer"
	"docqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, doc string
	var noLLM bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.StringVar(&doc, "doc", "", "Document to ask about (.pdf or text); overrides the configured paths")
	flag.BoolVar(&noLLM, "no-llm", false, "Simulate answers instead of calling the model")
	flag.Parse()
	if doc == "" && flag.NArg() > 0 {
		doc = flag.Arg(0)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if doc != "" {
		cfg.Document.TextPath, cfg.Document.PDFPath = loader.PathsFor(doc)
	}
	if noLLM {
		cfg.LLM.Disabled = true
	}
	// Logs would tear the full screen UI.
	if cfg.Log.Output == "" || cfg.Log.Output == "stderr" || cfg.Log.Output == "stdout" {
		cfg.Log.Level = "fatal"
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer app.Close()

	label := documentLabel(cfg)
	if preview, err := app.Preview(summarizer.DefaultSentences); err != nil {
		label += " (unreadable: " + err.Error() + ")"
	} else if preview != "" {
		label += "\n" + preview
	}

	m := tui.New(context.Background(), app, label)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func documentLabel(cfg *config.AppConfig) string {
	switch {
	case cfg.Document.TextPath != "":
		return "Document: " + filepath.Base(cfg.Document.TextPath)
	case cfg.Document.PDFPath != "":
		return "Document: " + filepath.Base(cfg.Document.PDFPath)
	}
	return ""
}
