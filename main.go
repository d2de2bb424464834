package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"webchat-client/internal/api"
	"webchat-client/internal/chat"
	"webchat-client/internal/config"
	"webchat-client/internal/debug"
	"webchat-client/internal/logging"
	"webchat-client/internal/models"
	"webchat-client/internal/notify"
	"webchat-client/internal/presence"
	"webchat-client/internal/session"
	"webchat-client/internal/store/sqlstore"
	"webchat-client/internal/telemetry"
	"webchat-client/internal/tui"
	"webchat-client/internal/ws"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Env)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	creds, err := sqlstore.Open(cfg.StorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer creds.Close()

	client := api.New(cfg.APIURL, &http.Client{Timeout: 15 * time.Second})

	// The program pointer is assigned before the dispatch goroutine
	// starts; Send on a not-yet-running program queues the message.
	var program *tea.Program
	refresh := func() {
		program.Send(tui.RefreshMsg{})
	}

	sess := session.New(client, creds)
	sync := chat.New(client, refresh)
	tracker := presence.NewTracker(client, refresh)
	typing := presence.NewTypingNotifier(client, cfg.TypingRate, cfg.TypingBurst)

	dispatcher := notify.New(sync, sess.UserID, func(msg models.Message) {
		program.Send(tui.AlertMsg{Message: msg})
	})

	wsClient, err := ws.Dial(ctx, cfg.WSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to push transport")
	}
	defer wsClient.Close()

	streams, err := ws.NewStreams(wsClient, ws.Handlers{
		NewMessage: func(msg models.Message) {
			sync.ApplyNewMessage(msg)
			dispatcher.HandleNewMessage(msg)
		},
		MessageRead:        sync.ApplyMessageRead,
		UserStatusSwitched: tracker.ApplyStatus,
		UserActivityChange: tracker.ApplyActivity,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open push streams")
	}

	app := tui.New(client, sess, sync, tracker, typing)
	program = tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())

	streamCtx, stopStreams := context.WithCancel(ctx)
	defer stopStreams()
	go func() {
		if err := streams.Run(streamCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("push stream dispatch stopped")
		}
	}()

	if cfg.DebugAddr != "" {
		dbg := debug.New(sess, sync, tracker)
		go func() {
			if err := dbg.Run(cfg.DebugAddr); err != nil {
				log.Error().Err(err).Msg("debug server stopped")
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("tui exited with error")
		os.Exit(1)
	}

	// Flip the status back before dropping the connection so the peers
	// see us go away.
	offCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sess.SwitchStatus(offCtx, models.StatusOffline); err != nil {
		log.Warn().Err(err).Msg("could not switch status to offline")
	}
}
