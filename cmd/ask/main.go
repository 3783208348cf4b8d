package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"docqa/internal/bootstrap"
	"docqa/internal/config"
	"docqa/internal/loader"
	"docqa/internal/prompt"
)

var (
	cfgPath = flag.String("config", "config.yaml", "Path to config YAML")
	doc     = flag.String("doc", "", "Document to ask about (.pdf or text)")
	noLLM   = flag.Bool("no-llm", false, "Simulate answers instead of calling the model")
	topK    = flag.Int("top-k", 0, "Number of context chunks (0 keeps the configured value)")
	lexical = flag.Bool("lexical", false, "Rank chunks with BM25 instead of embeddings")
	chunks  = flag.Bool("chunks", false, "Print the retrieved chunks without calling the model")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()
	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Println("Usage: ask [--config=config.yaml] [--doc=file.pdf] question...")
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *doc != "" {
		cfg.Document.TextPath, cfg.Document.PDFPath = loader.PathsFor(*doc)
	}
	if *noLLM {
		cfg.LLM.Disabled = true
	}
	if *topK > 0 {
		cfg.Pipeline.TopK = *topK
	}
	if *lexical {
		cfg.Pipeline.UseEmbeddings = false
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if *chunks {
		out, err := app.Retrieve(ctx, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "retrieval failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(boldCyan("Retrieved:"))
		fmt.Println(out)
		return
	}

	res := app.Ask(ctx, question)
	fmt.Println(boldGreen("Answer: ") + res.Answer)
	if len(res.ContextUsed) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(boldCyan(fmt.Sprintf("Context (%d chunks):", len(res.ContextUsed))))
	for i, c := range res.ContextUsed {
		if i > 0 {
			fmt.Println(faint(strings.TrimSpace(prompt.ContextSeparator)))
		}
		fmt.Println(c)
	}
}
