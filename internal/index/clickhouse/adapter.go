// Package clickhouse is the ClickHouse secondary index backend.
package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/aevon-lab/adpulse/internal/index"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures the connection.
type Options struct {
	Addr            string
	Database        string
	Username        string
	Password        string
	Table           string
	DialTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Adapter stores index documents in a ReplacingMergeTree table.
type Adapter struct {
	db    *sql.DB
	table string
	nowFn func() time.Time
}

var _ index.Index = (*Adapter)(nil)

// NewAdapter opens a connection pool and verifies it with a ping.
func NewAdapter(ctx context.Context, opts Options) (*Adapter, error) {
	if !tableNamePattern.MatchString(opts.Table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", opts.Table)
	}

	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      opts.DialTimeout,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	slog.Info("[ClickHouse] Connecting",
		"addr", opts.Addr,
		"database", opts.Database,
		"table", opts.Table)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return newAdapter(db, opts.Table), nil
}

func newAdapter(db *sql.DB, table string) *Adapter {
	return &Adapter{db: db, table: table, nowFn: time.Now}
}

func (a *Adapter) EnsureIndex(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createTableSQL(a.table)); err != nil {
		return fmt.Errorf("failed to create index table %s: %w", a.table, err)
	}
	slog.Info("[ClickHouse] Index table ready", "table", a.table)
	return nil
}

func (a *Adapter) IndexOne(ctx context.Context, event *v1.Event) error {
	res, err := a.IndexBulk(ctx, []*v1.Event{event})
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return res.Failed[0].Err
	}
	return nil
}

// IndexBulk sends the events as one insert block. A row the driver cannot encode
// is reported and skipped; a failed send fails the whole batch.
func (a *Adapter) IndexBulk(ctx context.Context, events []*v1.Event) (index.BulkResult, error) {
	var res index.BulkResult
	if len(events) == 0 {
		return res, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL(a.table))
	if err != nil {
		return res, fmt.Errorf("failed to prepare batch: %w", err)
	}
	defer stmt.Close()

	version := uint64(a.nowFn().UnixNano())
	for _, e := range events {
		d := index.DocumentFrom(e)
		_, err := stmt.ExecContext(ctx,
			d.EventID,
			d.EventType,
			d.CampaignID,
			d.UserID,
			d.SessionID,
			d.Timestamp,
			d.Value,
			d.ConversionValue,
			d.Currency,
			d.Platform,
			d.Device,
			d.Browser,
			d.OS,
			d.Country,
			d.Region,
			d.City,
			d.Referrer,
			d.LandingPage,
			version,
		)
		if err != nil {
			res.Failed = append(res.Failed, index.BulkFailure{EventID: d.EventID, Err: err})
			continue
		}
		res.Indexed++
	}

	if res.Indexed == 0 {
		return res, nil
	}

	if err := tx.Commit(); err != nil {
		return index.BulkResult{}, fmt.Errorf("failed to send batch: %w", err)
	}
	return res, nil
}

func (a *Adapter) Query(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
	query, args, err := buildQuery(a.table, q)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var buckets []aggregation.Bucket
	for rows.Next() {
		var (
			b   aggregation.Bucket
			key string
		)
		if err := rows.Scan(&key, &b.Events, &b.Impressions, &b.Clicks, &b.Conversions, &b.Spend, &b.Revenue, &b.Campaigns); err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		switch q.GroupBy {
		case aggregation.GroupNone:
		case aggregation.GroupHour:
			ts, err := time.Parse(time.RFC3339, key)
			if err != nil {
				return nil, fmt.Errorf("failed to parse hour bucket %q: %w", key, err)
			}
			b.Time = ts.UTC()
		default:
			b.Key = key
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating index rows: %w", err)
	}
	return buckets, nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Adapter) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close clickhouse: %w", err)
	}
	slog.Info("[ClickHouse] Connection closed")
	return nil
}
