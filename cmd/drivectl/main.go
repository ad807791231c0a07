package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"drive-me-local/config"
	"drive-me-local/internal/application/services"
	"drive-me-local/internal/infrastructure/db/postgres"
	"drive-me-local/internal/infrastructure/db/postgres/activity"
	"drive-me-local/internal/infrastructure/db/postgres/migrations"
	"drive-me-local/internal/infrastructure/db/postgres/user"
	"drive-me-local/internal/infrastructure/metrics"
	"drive-me-local/internal/infrastructure/password"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "drivectl",
	Short:        "Administration tool for drive-me-local",
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or upgrade the database schema and optionally seed an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetBool("seed-admin")
		username, _ := cmd.Flags().GetString("admin-username")
		pass, _ := cmd.Flags().GetString("admin-password")

		return withDB(cmd.Context(), func(ctx context.Context, env *env) error {
			if err := migrations.MigrateUp(env.sqlDB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")

			if !seed {
				return nil
			}

			if pass == "" {
				p, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				pass = p
			}

			created, err := env.seedAdmin(ctx, username, pass)
			if err != nil {
				return fmt.Errorf("seeding admin: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin account %q created\n", username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Account %q already exists, left unchanged\n", username)
			}
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Inspect the database schema",
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(_ context.Context, env *env) error {
			st, err := migrations.CheckStatus(env.sqlDB)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Empty {
				fmt.Fprintf(out, "No schema yet (latest available: %d), run `drivectl init`\n", st.Latest)
				return nil
			}
			fmt.Fprintf(out, "Version: %d\n", st.Version)
			fmt.Fprintf(out, "Latest:  %d\n", st.Latest)
			fmt.Fprintf(out, "Dirty:   %t\n", st.Dirty)
			if !st.UpToDate() {
				return errors.New("schema is not up to date")
			}
			return nil
		})
	},
}

type env struct {
	logger *zap.Logger
	cfg    config.Config
	sqlDB  *sql.DB
	pgDB   postgres.DB
}

// withDB loads the configuration, opens the database and hands both to fn.
func withDB(ctx context.Context, fn func(ctx context.Context, e *env) error) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg := config.Load()

	dsn, err := cfg.DBDSN()
	if err != nil {
		return err
	}
	pool, err := postgres.New(ctx, logger, dsn)
	if err != nil {
		logger.Error("database unreachable", zap.Error(err), zap.String("dsn", cfg.RedactedDBDSN()))
		return err
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	return fn(ctx, &env{logger: logger, cfg: cfg, sqlDB: sqlDB, pgDB: pool})
}

func (e *env) seedAdmin(ctx context.Context, username, pass string) (bool, error) {
	counter := metrics.NewUnregisteredCounter()
	activityService := services.NewActivityService(e.logger, activity.NewRepository(e.pgDB), nil, counter)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- activityService.Run(runCtx) }()
	defer func() {
		stop()
		<-done
	}()

	us := services.NewUserService(
		e.logger,
		user.NewRepository(e.pgDB),
		password.New(e.cfg.App.BcryptCost),
		activityService,
		counter,
	)

	return us.EnsureAdmin(ctx, username, pass)
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "Admin password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("admin password required: pass --admin-password or pipe it on stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	initCmd.Flags().Bool("seed-admin", false, "Create an administrator account if it does not exist")
	initCmd.Flags().String("admin-username", "admin", "Username of the seeded administrator")
	initCmd.Flags().String("admin-password", "", "Password of the seeded administrator (prompted when empty)")

	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(migrateCmd)
}
