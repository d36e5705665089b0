// Command riverwatch-tail connects to a riverwatch server's WebSocket
// endpoint and prints every broadcast event as a log line. It is a small
// diagnostic client: point it at a running server to watch the telemetry
// stream, and it reconnects with the same backoff policy browser clients use.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/riverwatch/riverwatch/internal/config"
	"github.com/riverwatch/riverwatch/internal/model"
	"github.com/riverwatch/riverwatch/internal/wsclient"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "WebSocket URL of the riverwatch server")
	base := flag.Duration("reconnect-base", config.DefaultReconnectBase, "base delay between reconnect attempts (grows linearly)")
	maxRetries := flag.Int("max-reconnects", config.DefaultMaxReconnects, "reconnect attempts before giving up")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mgr := wsclient.New(*url, *base, *maxRetries, func(ev model.Event) {
		data, _ := json.Marshal(ev.Data)
		slog.Info("event", "type", ev.Type, "data", string(data))
	})

	slog.Info("riverwatch-tail connecting", "url", *url)
	if err := mgr.Run(ctx); err != nil {
		if errors.Is(err, wsclient.ErrRetriesExhausted) {
			slog.Error("gave up reconnecting", "attempts", *maxRetries)
			os.Exit(1)
		}
		slog.Error("connection manager stopped", "err", err)
		os.Exit(1)
	}
}
