// Command client follows a room from the terminal: it hydrates the drawing
// from the room's history, joins the room and logs every change. With
// -demo it also draws a rectangle, which is handy for smoke-testing a relay.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/artdeck/artdeck-go/internal/auth"
	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/engine"
	"github.com/artdeck/artdeck-go/internal/geometry"
	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/wsclient"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "relay base URL")
	roomID := flag.Int64("room", 1, "room id to follow")
	token := flag.String("token", os.Getenv("ARTDECK_TOKEN"), "bearer token")
	user := flag.String("user", "", "issue a development token for this user id with -secret instead of -token")
	secret := flag.String("secret", "dev-secret-change-in-production", "JWT secret for -user")
	limit := flag.Int("limit", 0, "history entries to hydrate from (0 = server default)")
	demo := flag.Bool("demo", false, "draw a rectangle after joining")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if *user != "" {
		issued, err := auth.NewService(*secret).IssueToken(*user)
		if err != nil {
			slog.Error("issue token", "error", err)
			os.Exit(1)
		}
		*token = issued
	}
	if *token == "" {
		slog.Error("a token is required: set -token, ARTDECK_TOKEN or -user")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *server, *token, *roomID, *limit, *demo); err != nil {
		slog.Error("client stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server, token string, roomID int64, limit int, demo bool) error {
	entries, err := wsclient.FetchHistory(ctx, nil, server, token, roomID, limit)
	if err != nil {
		return err
	}

	conn, err := wsclient.Dial(ctx, server, token)
	if err != nil {
		return err
	}
	defer conn.Close()

	eng := engine.New(engine.Options{
		RoomID: roomID,
		Outbound: func(env protocol.Envelope) {
			if err := conn.Send(ctx, env); err != nil {
				slog.Warn("send edit", "error", err)
			}
		},
		OnChange: logDrawing,
	})
	slog.Info("hydrated room", "room", roomID, "shapes", eng.Hydrate(entries))

	if err := conn.Join(ctx, roomID); err != nil {
		return err
	}

	if demo {
		eng.SetTool(engine.ToolRect)
		eng.PointerDown(geometry.Point{X: 10, Y: 10})
		eng.PointerUp(geometry.Point{X: 60, Y: 50})
	}

	// Inbound frames are applied on this goroutine only.
	return conn.Run(ctx, func(data []byte) {
		eng.HandleInbound(data)
	})
}

func logDrawing(shapes []document.Shape) {
	slog.Info("drawing changed", "shapes", len(shapes))
	for _, s := range shapes {
		slog.Debug("shape", "id", s.ID, "kind", s.Kind(), "bounds", s.Bounds(), "log_id", s.LogID)
	}
}
