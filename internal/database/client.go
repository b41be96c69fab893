package database

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Client is the catalog's handle on the database. Its embedded Queries run
// outside of any transaction; use WithTx for multi-statement writes.
type Client struct {
	*Queries
	drv *entsql.Driver
}

type clientCtxKey struct{}

func NewContext(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientCtxKey{}, c)
}

func FromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientCtxKey{}).(*Client)
	return c
}

// New opens the configured database, exiting the process on failure.
func New(ctx context.Context, cfg *models.DatabaseConfig) *Client {
	logger := log.FromContext(ctx)

	client, err := Open(ctx, cfg)
	if err != nil {
		logger.WithError(err).WithField("db_type", cfg.DBType).Fatal("failed to connect to database")
		return nil
	}

	return client
}

func Open(ctx context.Context, cfg *models.DatabaseConfig) (*Client, error) {
	var drv *entsql.Driver

	switch cfg.DBType {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("parsing connection string: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		drv = entsql.OpenDB(dialect.Postgres, stdlib.OpenDBFromPool(pool))
	case "mysql":
		db, err := sql.Open(dialect.MySQL, cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("connecting to mysql: %w", err)
		}
		drv = entsql.OpenDB(dialect.MySQL, db)
	case "sqlite":
		db, err := sql.Open(cfg.DBType, cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		// A single connection keeps writers from tripping over SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		drv = entsql.OpenDB(dialect.SQLite, db)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}

	if err := drv.DB().PingContext(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("pinging %s: %w", cfg.DBType, err)
	}

	return &Client{
		Queries: newQueries(drv, drv.Dialect()),
		drv:     drv,
	}, nil
}

func (c *Client) Close() error {
	return c.drv.Close()
}

// WithTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error or panics, and committed otherwise.
func (c *Client) WithTx(ctx context.Context, fn func(tx *Queries) error) error {
	tx, err := c.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err = fn(newQueries(tx, c.dialect)); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return classify(fmt.Errorf("committing transaction: %w", err))
	}
	return nil
}

// Migrate creates or updates the catalog tables on the client stored in ctx.
func Migrate(ctx context.Context) {
	logger := log.FromContext(ctx)
	logger.Info("initiating database schema migration")
	db := FromContext(ctx)
	if db == nil {
		logger.Fatal("failed to get database client from context")
		return
	}

	if err := db.Migrate(ctx); err != nil {
		logger.WithError(err).Fatal("failed to create schema")
	}
	logger.Info("database schema migration complete")
}

func (c *Client) Migrate(ctx context.Context) error {
	migrate, err := schema.NewMigrate(
		c.drv,
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
	)
	if err != nil {
		return fmt.Errorf("preparing migration: %w", err)
	}

	return migrate.Create(ctx, Tables...)
}
