// Package main is a one-shot CLI for the response pipeline: it sends a
// prompt and streams the answer to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lumenchat/respond"
	"github.com/lumenchat/respond/internal/config"
	"github.com/lumenchat/respond/internal/observability"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	systemPrompt := flag.String("system", "You are a helpful assistant.", "system prompt")
	noStream := flag.Bool("no-stream", false, "wait for the complete response instead of streaming")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: respond [flags] <message>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	message := strings.Join(flag.Args(), " ")

	cfg, manager, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	client, err := respond.NewFromConfig(cfg, respond.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "create client:", err)
		os.Exit(1)
	}
	defer client.Close()

	if manager != nil {
		// Enhancer flags follow config edits made while a response is in
		// flight.
		manager.OnChange(func(c *config.Config) {
			client.SetEnhancers(c.Enhancers)
		})
		defer manager.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := &respond.Request{
		Message:      message,
		SystemPrompt: *systemPrompt,
	}

	if *noStream {
		result, err := client.GenerateResponse(ctx, req)
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate:", err)
			os.Exit(1)
		}
		fmt.Println(result.Text)
		return
	}

	stream, err := client.StreamResponse(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stream:", err)
		os.Exit(1)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintln(os.Stderr, "stream:", err)
			os.Exit(1)
		}
		fmt.Print(chunk)
	}
	fmt.Println()
}

// loadConfig reads the config file and starts watching it, falling back to
// defaults (and no watcher) so the CLI works against a local endpoint with no
// setup.
func loadConfig(path string) (*config.Config, *config.Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.DefaultConfig(), nil, nil
	}
	manager, err := config.NewManager(path, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return manager.Current(), manager, nil
}
