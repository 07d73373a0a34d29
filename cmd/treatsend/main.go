package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/tna-cash/treatsend/pkg/app"
	"github.com/tna-cash/treatsend/pkg/config"
	"github.com/tna-cash/treatsend/pkg/dashboard"
	"github.com/tna-cash/treatsend/pkg/logger"
	"github.com/tna-cash/treatsend/pkg/receipt"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		serveCommand(args)
	case "send":
		sendCommand(args)
	case "migrate":
		migrateDataCommand()
	case "version":
		fmt.Printf("treatsend %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Printf("unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: treatsend [command] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve     Run the dashboard server (default)")
	fmt.Println("  send      Send a batch of transfers from the terminal")
	fmt.Println("  migrate   Migrate batch history between file and postgres storage")
	fmt.Println("  version   Print version")
}

// serveCommand runs the dashboard until interrupted.
func serveCommand(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the config database")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))

	token, generated, err := cfg.EnsureDashboardToken()
	if err != nil {
		logger.ErrorCF("main", "Failed to ensure dashboard token", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	if generated {
		if err := config.SaveConfig(*configPath, cfg); err != nil {
			logger.WarnCF("main", "Failed to persist generated dashboard token", map[string]interface{}{"error": err.Error()})
		}
		logger.InfoCF("main", "Dashboard token generated", map[string]interface{}{"token": token})
	}

	application, err := app.New(cfg)
	if err != nil {
		logger.ErrorCF("main", "Failed to initialize application", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := application.Start(ctx); err != nil {
		logger.ErrorCF("main", "Failed to start application", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer application.Close()

	dashCfg := cfg.DashboardSettings()
	if !dashCfg.Enabled {
		logger.ErrorC("main", "Dashboard is disabled in config, nothing to serve")
		os.Exit(1)
	}

	server := dashboard.NewServer(dashCfg, cfg, application)
	if err := server.Start(ctx); err != nil {
		logger.ErrorCF("main", "Failed to start dashboard", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer server.Stop()

	logger.InfoCF("main", "treatsend is running", map[string]interface{}{
		"dashboard": fmt.Sprintf("http://%s:%d", dashCfg.Host, dashCfg.Port),
		"relay":     cfg.RelayURL(),
	})

	<-ctx.Done()
	logger.InfoC("main", "Shutting down")
}

// sendCommand runs a headless batch: read tasks, load the wallet from a
// mnemonic that never touches disk, publish, write receipts.json.
func sendCommand(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the config database")
	taskFile := fs.String("file", "", "task file, one transfer per line (\"-\" for stdin)")
	outFile := fs.String("out", receipt.FileName, "receipt output path")
	relayURL := fs.String("relay", "", "relay URL override")
	recipient := fs.String("recipient", "", "recipient npub override")
	tag := fs.String("tag", "", "routing tag override")
	fs.Parse(args)

	if *taskFile == "" {
		fmt.Println("send: -file is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *relayURL != "" {
		cfg.Relay.URL = *relayURL
	}
	if *recipient != "" {
		cfg.Transfer.RecipientNpub = *recipient
	}
	if *tag != "" {
		cfg.Transfer.RoutingTag = *tag
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))

	taskText, err := readTaskText(*taskFile)
	if err != nil {
		fmt.Printf("Error reading tasks: %v\n", err)
		os.Exit(1)
	}

	mnemonic, err := readMnemonic()
	if err != nil {
		fmt.Printf("Error reading mnemonic: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Printf("Error initializing application: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := application.Start(ctx); err != nil {
		fmt.Printf("Error starting application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	w, err := application.LoadWallet(mnemonic)
	if err != nil {
		fmt.Printf("Error loading wallet: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Sender: %s\n", w.Npub)
	w.PrintNpubQR(os.Stdout)
	fmt.Println()

	record, err := application.RunBatch(ctx, taskText)
	if err != nil {
		fmt.Printf("Error running batch: %v\n", err)
		os.Exit(1)
	}

	if err := receipt.WriteFile(*outFile, record.Receipts); err != nil {
		fmt.Printf("Error writing receipts: %v\n", err)
		os.Exit(1)
	}

	summary := record.Summary()
	fmt.Printf("Batch %s: %d published, %d rejected, %d failed of %d tasks\n",
		record.ID, summary.Published, summary.Rejected, summary.Failed, summary.Total)
	fmt.Printf("Receipts written to %s\n", *outFile)
	if summary.Rejected+summary.Failed > 0 {
		os.Exit(1)
	}
}

func readTaskText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readMnemonic prefers the TREATSEND_MNEMONIC environment variable and
// falls back to a no-echo prompt. The words are never written anywhere.
func readMnemonic() (string, error) {
	if m := strings.TrimSpace(os.Getenv("TREATSEND_MNEMONIC")); m != "" {
		return m, nil
	}
	rl, err := readline.New("")
	if err != nil {
		return "", err
	}
	defer rl.Close()
	words, err := rl.ReadPassword("Mnemonic (input hidden): ")
	if err != nil {
		return "", err
	}
	mnemonic := strings.TrimSpace(string(words))
	if mnemonic == "" {
		return "", fmt.Errorf("empty mnemonic")
	}
	return mnemonic, nil
}
