package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/givers/console/internal/config"
	"github.com/givers/console/internal/enquiry"
	"github.com/givers/console/internal/logging"
	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/notify"
	"github.com/givers/console/internal/tui"
	"github.com/givers/console/pkg/contactapi"
)

// recentLimit is how many enquiries the dashboard poller keeps.
const recentLimit = 5

func main() {
	if err := run(); err != nil {
		logging.Fatal("console exited", "error", err)
	}
}

func run() error {
	cfg, err := config.LoadConsole()
	if err != nil {
		return err
	}
	// ターミナルは UI が使うのでログは常にファイルへ
	defer logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}).Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := contactapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	notes := notify.NewChannel(32)
	changes := tui.NewSignal()

	store := enquiry.NewStore(client,
		enquiry.WithNotifier(notify.Multi{notify.Log{}, notes}),
		enquiry.WithOnChange(changes.Fire),
		enquiry.WithPageSize(cfg.PageSize),
	)

	search := enquiry.NewDebouncer(cfg.SearchDebounce, func(text string) {
		go func() {
			if err := store.SetSearch(ctx, text); err != nil && !errors.Is(err, enquiry.ErrStaleResponse) {
				slog.Warn("search failed", "search", text, "error", err)
			}
		}()
	})
	defer search.Stop()

	badges := enquiry.NewNotificationState()
	recent := tui.NewRecent(changes.Fire)
	badgePoller := enquiry.NewPoller(client, badges, enquiry.PollerConfig{
		Interval: cfg.BadgePollInterval,
		Watches:  []enquiry.Watch{enquiry.NewEnquiriesWatch()},
		OnUpdate: func(string, model.ListResult) { changes.Fire() },
	})
	dashboardPoller := enquiry.NewPoller(client, badges, enquiry.PollerConfig{
		Interval: cfg.DashboardPollInterval,
		Watches:  []enquiry.Watch{enquiry.RecentEnquiriesWatch(recentLimit)},
		OnUpdate: recent.Update,
	})

	program := tea.NewProgram(tui.NewModel(tui.Config{
		Context:       ctx,
		Store:         store,
		Search:        search,
		Badges:        badges,
		Recent:        recent,
		Notifications: notes.C(),
		Changes:       changes.C(),
	}), tea.WithAltScreen(), tea.WithContext(ctx))

	slog.Info("console started", "api", cfg.APIBaseURL, "page_size", cfg.PageSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		badgePoller.Start(gctx)
		dashboardPoller.Start(gctx)
		<-gctx.Done()
		badgePoller.Stop()
		dashboardPoller.Stop()
		return nil
	})
	g.Go(func() error {
		// UI を閉じたら poller も止める
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	err = g.Wait()
	slog.Info("console stopped")
	return err
}
