package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/api"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/config"
	"github.com/KAsare1/liftlog-server/db"
	"github.com/KAsare1/liftlog-server/service/friends"
	"github.com/KAsare1/liftlog-server/service/memstore"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type app struct {
	cfg *config.Config
	log *slog.Logger

	dbURL string
	port  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "liftlog",
		Short:        "Workout log API with friends, likes and comments",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.dbURL, "db", "", "postgres DSN (overrides DB_URL)")
	root.PersistentFlags().StringVar(&a.port, "port", "", "HTTP port (overrides SERVER_PORT)")

	serve := a.serveCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, a.migrateCmd(), a.clearCmd(), a.tokenCmd(), a.friendsCmd())
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBURL = a.dbURL
	}
	if cmd.Flags().Changed("port") {
		cfg.ServerPort = a.port
	}
	a.cfg = cfg
	a.log = cfg.NewLogger()
	return nil
}

func (a *app) openDB() (*gorm.DB, error) {
	conn, err := db.NewPSQLStorage(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("database initialization: %w", err)
	}
	a.log.Info("connected to the database")
	return conn, nil
}

func (a *app) closeDB(conn *gorm.DB) {
	if err := db.Close(conn); err != nil {
		a.log.Warn("closing database", "err", err)
		return
	}
	a.log.Info("database connection closed")
}

func (a *app) serveCmd() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.SecretKey == "" {
				return errors.New("SECRET_KEY is not set")
			}

			var store api.Store
			if memory {
				a.log.Warn("using in-memory store; data is lost on exit")
				store = memstore.New()
			} else {
				conn, err := a.openDB()
				if err != nil {
					return err
				}
				defer a.closeDB(conn)
				store = db.NewStore(conn)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.NewAPIServer(a.cfg, store, a.log).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "keep data in memory instead of postgres")
	return cmd
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer a.closeDB(conn)

			if err := db.Migrate(conn, a.log); err != nil {
				return fmt.Errorf("migration: %w", err)
			}
			a.log.Info("migrations completed successfully")
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	var (
		yes    bool
		tables []string
	)
	cmd := &cobra.Command{
		Use:   "clear-db",
		Short: "Drop tables (all of them unless --tables is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to clear the database? (yes/no): ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					a.log.Info("database clearing cancelled")
					return nil
				}
			}

			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer a.closeDB(conn)

			if err := db.Clear(conn, a.log, tables); err != nil {
				return fmt.Errorf("clearing database: %w", err)
			}
			a.log.Info("database cleared successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringSliceVar(&tables, "tables", nil, "tables to drop: "+strings.Join(db.TableNames(), ", "))
	return cmd
}

func (a *app) tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.SecretKey == "" {
				return errors.New("SECRET_KEY is not set")
			}
			token, err := utils.IssueToken([]byte(a.cfg.SecretKey), userID, ttl)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) friendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Seed or remove friendships",
	}

	run := func(op func(svc *friends.Service, ctx context.Context, x, y string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer a.closeDB(conn)

			svc := friends.NewService(db.NewStore(conn))
			if err := op(svc, cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			a.log.Info("friendship updated", "op", cmd.Name(), "user", args[0], "friend", args[1])
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "link <user-id> <friend-id>",
			Short: "Make two users friends",
			Args:  cobra.ExactArgs(2),
			RunE:  run((*friends.Service).Link),
		},
		&cobra.Command{
			Use:   "unlink <user-id> <friend-id>",
			Short: "Remove a friendship in either direction",
			Args:  cobra.ExactArgs(2),
			RunE:  run((*friends.Service).Unlink),
		},
	)
	return cmd
}
