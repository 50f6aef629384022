// Command minectl asks a running minedash server to refresh character
// ledgers and prints the server's answer.
//
//	minectl -server http://localhost:8080 90000001 90000002
//
// Several ids are sent at once. Only the answer to the last one is printed.
package main

import (
	"context"
	"flag"
	"fmt"
	"minedash/internal/providers"
	"minedash/internal/trigger"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "minedash base URL")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	ids := flag.Args()
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: minectl [flags] <character_id>...")
		os.Exit(2)
	}

	logger, err := providers.NewConsoleLogger(os.Stderr, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	display := trigger.NewTextDisplay("", os.Stdout)
	t := trigger.New(*server, display, logger, &http.Client{Timeout: *timeout})

	pending := make([]<-chan error, 0, len(ids))
	for _, id := range ids {
		pending = append(pending, t.Click(ctx, id))
	}

	for _, done := range pending {
		err = <-done
	}
	// the newest click is never stale, so err is its outcome
	if err != nil {
		os.Exit(1)
	}
}
