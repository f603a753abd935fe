package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/aipx/internal/retry"
	"github.com/vvka-141/aipx/pkg/aipx"
)

//go:embed schema.sql
var schemaSQL string

// ErrCollectionNotFound is returned by Collection for an unknown id.
var ErrCollectionNotFound = errors.New("collection not found")

// PostgresStore persists results in the aipx_* tables. A collection is
// replaced as a whole: stale items of a previous run never survive.
type PostgresStore struct {
	pool     *pgxpool.Pool
	logger   aipx.Logger
	executor *retry.Executor
	closer   io.Closer
}

var _ aipx.ItemStore = (*PostgresStore)(nil)

// NewPostgresStore wraps an open pool. Panics on nil arguments.
func NewPostgresStore(pool *pgxpool.Pool, logger aipx.Logger) *PostgresStore {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PostgresStore{
		pool:     pool,
		logger:   logger,
		executor: retry.NewDefaultExecutor(logger, "store"),
	}
}

// Open connects with config and bootstraps the schema.
func Open(ctx context.Context, config aipx.ConnectionConfig, logger aipx.Logger) (*PostgresStore, error) {
	connector, err := NewConnector(config, logger)
	if err != nil {
		return nil, err
	}
	pool, err := connector.Connect(ctx)
	if err != nil {
		if c, ok := connector.(io.Closer); ok {
			c.Close() //nolint:errcheck
		}
		return nil, err
	}

	store := NewPostgresStore(pool, logger)
	if c, ok := connector.(io.Closer); ok {
		store.closer = c
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close() //nolint:errcheck
		return nil, err
	}
	return store, nil
}

// Close closes the pool and whatever the connector holds open.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// EnsureSchema creates the store tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	err := s.executor.Execute(ctx, func(ctx context.Context) error {
		return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, sqlLockSchema); err != nil {
				return fmt.Errorf("lock schema: %w", err)
			}
			if _, err := tx.Exec(ctx, schemaSQL); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("bootstrap item store schema: %w", err)
	}
	return nil
}

// Store replaces the collection of result in one transaction.
func (s *PostgresStore) Store(ctx context.Context, result aipx.Result) error {
	id := result.Root.CollectionID
	if id == "" {
		return fmt.Errorf("root %q has no collection id", result.Root.ID)
	}

	start := time.Now()
	err := s.executor.Execute(ctx, func(ctx context.Context) error {
		return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			return sendBatch(ctx, tx, collectionBatch(result))
		})
	})
	if err != nil {
		return fmt.Errorf("collection %s: %w", id, err)
	}

	s.logger.Verbose("%s: wrote %d items and %d text items in %s", id, len(result.Items)+1, len(result.TextItems), time.Since(start).Round(time.Millisecond))
	return nil
}

// Collection reads a stored collection back in its original order.
func (s *PostgresStore) Collection(ctx context.Context, id string) (aipx.Result, error) {
	rows, err := s.pool.Query(ctx, sqlSelectItems, id)
	if err != nil {
		return aipx.Result{}, fmt.Errorf("query items of %s: %w", id, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[itemRow])
	if err != nil {
		return aipx.Result{}, fmt.Errorf("scan items of %s: %w", id, err)
	}
	if len(items) == 0 {
		return aipx.Result{}, fmt.Errorf("%s: %w", id, ErrCollectionNotFound)
	}

	rows, err = s.pool.Query(ctx, sqlSelectTextItems, id)
	if err != nil {
		return aipx.Result{}, fmt.Errorf("query text items of %s: %w", id, err)
	}
	texts, err := pgx.CollectRows(rows, pgx.RowToStructByName[textItemRow])
	if err != nil {
		return aipx.Result{}, fmt.Errorf("scan text items of %s: %w", id, err)
	}

	result := aipx.Result{Root: items[0].item(), Items: make([]aipx.Item, 0, len(items)-1)}
	for _, row := range items[1:] {
		result.Items = append(result.Items, row.item())
	}
	result.TextItems = make([]aipx.TextItem, 0, len(texts))
	for _, row := range texts {
		result.TextItems = append(result.TextItems, row.textItem())
	}
	return result, nil
}

// collectionBatch queues the statements that replace result's collection.
// The root is stored at position 0.
func collectionBatch(result aipx.Result) *pgx.Batch {
	id := result.Root.CollectionID
	batch := &pgx.Batch{}
	batch.Queue(sqlDeleteCollection, id)
	batch.Queue(sqlInsertCollection, id, result.Root.Label, string(result.Root.Type), len(result.Items), len(result.TextItems))

	batch.Queue(sqlInsertItem, itemArgs(id, 0, result.Root)...)
	for i, item := range result.Items {
		batch.Queue(sqlInsertItem, itemArgs(id, i+1, item)...)
	}
	for i, text := range result.TextItems {
		batch.Queue(sqlInsertTextItem, id, text.ID, i, text.ItemID, string(text.Type), text.Language, text.Encoding, text.URI)
	}
	return batch
}

func itemArgs(collectionID string, position int, item aipx.Item) []any {
	parentIDs := item.ParentIDs
	if parentIDs == nil {
		parentIDs = []string{}
	}
	// An empty fixity list is stored as SQL NULL rather than a JSON null.
	var fixity any
	if len(item.Fixity) > 0 {
		fixity = item.Fixity
	}
	return []any{
		collectionID, item.ID, position, item.ParentID, parentIDs, string(item.Type), item.Label,
		item.Size, item.CreatedAt, item.Width, item.Height, item.Resolution, item.Duration, item.Order,
		item.Original.URI, item.Original.PUID, item.Access.URI, item.Access.PUID, fixity,
	}
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close() //nolint:errcheck
			return fmt.Errorf("statement %d of %d: %w", i+1, batch.Len(), err)
		}
	}
	return results.Close()
}

type itemRow struct {
	ID           string        `db:"id"`
	ParentID     *string       `db:"parent_id"`
	ParentIDs    []string      `db:"parent_ids"`
	CollectionID string        `db:"collection_id"`
	Type         string        `db:"type"`
	Label        string        `db:"label"`
	Size         *int64        `db:"size"`
	CreatedAt    *time.Time    `db:"created_at"`
	Width        *int          `db:"width"`
	Height       *int          `db:"height"`
	Resolution   *int          `db:"resolution"`
	Duration     *float64      `db:"duration"`
	SortOrder    *int          `db:"sort_order"`
	OriginalURI  *string       `db:"original_uri"`
	OriginalPUID *string       `db:"original_puid"`
	AccessURI    *string       `db:"access_uri"`
	AccessPUID   *string       `db:"access_puid"`
	Fixity       []aipx.Fixity `db:"fixity"`
}

func (r itemRow) item() aipx.Item {
	return aipx.Item{
		ID:           r.ID,
		ParentID:     r.ParentID,
		ParentIDs:    r.ParentIDs,
		CollectionID: r.CollectionID,
		Type:         aipx.ItemType(r.Type),
		Label:        r.Label,
		Size:         r.Size,
		CreatedAt:    r.CreatedAt,
		Width:        r.Width,
		Height:       r.Height,
		Resolution:   r.Resolution,
		Duration:     r.Duration,
		Order:        r.SortOrder,
		Original:     aipx.FileRef{URI: r.OriginalURI, PUID: r.OriginalPUID},
		Access:       aipx.FileRef{URI: r.AccessURI, PUID: r.AccessPUID},
		Fixity:       r.Fixity,
	}
}

type textItemRow struct {
	ID           string  `db:"id"`
	ItemID       string  `db:"item_id"`
	CollectionID string  `db:"collection_id"`
	Type         string  `db:"type"`
	Language     *string `db:"language"`
	Encoding     *string `db:"encoding"`
	URI          string  `db:"uri"`
}

func (r textItemRow) textItem() aipx.TextItem {
	return aipx.TextItem{
		ID:           r.ID,
		ItemID:       r.ItemID,
		CollectionID: r.CollectionID,
		Type:         aipx.TextType(r.Type),
		Language:     r.Language,
		Encoding:     r.Encoding,
		URI:          r.URI,
	}
}
