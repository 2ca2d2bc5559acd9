package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cashbook-dev/cashbook/internal/activity"
	"github.com/cashbook-dev/cashbook/internal/config"
	"github.com/cashbook-dev/cashbook/internal/gateway"
	"github.com/cashbook-dev/cashbook/internal/gitops"
	"github.com/cashbook-dev/cashbook/internal/ledger"
	"github.com/cashbook-dev/cashbook/internal/logging"
	"github.com/cashbook-dev/cashbook/internal/statement"
	"github.com/cashbook-dev/cashbook/internal/store"
)

// HomeEnv overrides the default home directory.
const HomeEnv = "CASHBOOK_HOME"

// globals holds the persistent root flags.
type globals struct {
	home    string
	verbose bool
	now     func() time.Time
}

// resolveHome picks the home directory: flag, then $CASHBOOK_HOME, then
// ~/.cashbook.
func (g *globals) resolveHome() (string, error) {
	home := g.home
	if home == "" {
		home = os.Getenv(HomeEnv)
	}
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		home = filepath.Join(userHome, ".cashbook")
	}
	return filepath.Abs(home)
}

// app is one opened ledger home for the duration of a command.
type app struct {
	home  string
	cfg   *config.Config
	log   *zap.Logger
	store store.Store
	svc   *ledger.Service
	now   func() time.Time
	out   io.Writer
	errw  io.Writer
}

// openApp loads the config in the home directory and opens its ledger.
func openApp(ctx context.Context, cmd *cobra.Command, g *globals) (*app, error) {
	home, err := g.resolveHome()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(filepath.Join(home, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in %s, run \"cashbook init\" first", config.FileName, home)
		}
		return nil, err
	}

	if g.verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg, home)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	now := g.now
	if now == nil {
		now = time.Now
	}
	svc := ledger.Open(ctx, gateway.New(s, log), ledger.Options{
		Now:        now,
		DateLayout: cfg.Display.DateLayout,
		TimeLayout: cfg.Display.TimeLayout,
		Logger:     log,
	})

	return &app{
		home:  home,
		cfg:   cfg,
		log:   log,
		store: s,
		svc:   svc,
		now:   now,
		out:   cmd.OutOrStdout(),
		errw:  cmd.ErrOrStderr(),
	}, nil
}

func (a *app) Close() error {
	_ = a.log.Sync()
	return a.store.Close()
}

// statement snapshots the current ledger for export.
func (a *app) statement() statement.Statement {
	return a.snapshot(a.svc.Ledger())
}

func (a *app) snapshot(l ledger.Ledger) statement.Statement {
	st := statement.New(l, a.cfg.Ledger.Currency, a.now())
	st.Owner = a.cfg.Ledger.Owner
	return st
}

func (a *app) money(d decimal.Decimal) string {
	return statement.FormatMoney(d, a.cfg.Ledger.Currency)
}

// record finishes a mutating command: it warns when the change did not
// reach storage, commits the home directory when auto-commit is on, and
// appends a row to the activity log.
func (a *app) record(action, details, txnID string) {
	if !a.svc.Durable() {
		fmt.Fprintln(a.errw, "warning: could not write to storage, this change was not saved")
	}

	entry := activity.Entry{
		Timestamp:     a.now(),
		Action:        action,
		Details:       details,
		TransactionID: txnID,
	}
	entry.CommitHash = a.commit(action + ": " + details)

	if err := activity.Append(a.home, []activity.Entry{entry}); err != nil {
		a.log.Warn("appending activity log failed", zap.Error(err))
	}
}

// commit snapshots the home directory in git. Failures are logged only.
func (a *app) commit(message string) string {
	if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.home) {
		return ""
	}
	hash, err := gitops.CommitAll(a.home, message, gitops.Author{
		Name:  a.cfg.Git.AuthorName,
		Email: a.cfg.Git.AuthorEmail,
	})
	if err != nil {
		a.log.Warn("auto-commit failed", zap.Error(err))
		return ""
	}
	return hash
}
