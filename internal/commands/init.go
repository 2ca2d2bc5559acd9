package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/activity"
	"github.com/cashbook-dev/cashbook/internal/config"
	"github.com/cashbook-dev/cashbook/internal/gitops"
)

type initOptions struct {
	owner    string
	currency string
	backend  string
	git      bool
}

func newInitCommand(g *globals) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new cashbook home",
		Long: "Create a new cashbook home with a cashbook.yaml config. The directory defaults\n" +
			"to --home, $" + HomeEnv + " or ~/.cashbook.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := g.resolveHome()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}

			now := g.now
			if now == nil {
				now = time.Now
			}
			if err := runInit(dir, opts, now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized cashbook at %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "whose ledger this is")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "ISO 4217 display currency (default INR)")
	cmd.Flags().StringVar(&opts.backend, "backend", config.BackendFile, "storage backend: file, sqlite or redis")
	cmd.Flags().BoolVar(&opts.git, "git", false, "version the home directory with git")

	return cmd
}

func runInit(dir string, opts initOptions, now time.Time) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(opts.owner)
	if opts.currency != "" {
		cfg.Ledger.Currency = opts.currency
	}
	cfg.Storage.Backend = opts.backend
	if opts.backend == config.BackendSQLite {
		cfg.Storage.Path = "cashbook.db"
	}
	cfg.Git.AutoCommit = opts.git
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if cfg.Storage.Backend == config.BackendFile {
		if err := os.MkdirAll(cfg.StoragePath(dir), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	entry := activity.Entry{
		Timestamp: now,
		Action:    activity.ActionInit,
		Details:   fmt.Sprintf("%s backend", cfg.Storage.Backend),
	}

	if opts.git {
		// The sqlite journal files are not ledger data.
		gitignore := "*.db-shm\n*.db-wal\n"
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
		if err := gitops.Init(dir); err != nil {
			return err
		}
		hash, err := gitops.CommitAll(dir, "init: cashbook", gitops.Author{
			Name:  cfg.Git.AuthorName,
			Email: cfg.Git.AuthorEmail,
		})
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		entry.CommitHash = hash
	}

	return activity.Append(dir, []activity.Entry{entry})
}
