package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations the storage needs. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so the same storage works standalone or inside a
// caller-managed transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage persists records in the transition_history table. Metadata
// round-trips through a JSONB column; PerformerID maps to a nullable column
// so automated transitions stay distinguishable from empty performers.
type PostgresStorage struct {
	db DBTX
}

// NewPostgresStorage creates a storage backed by the given database handle
func NewPostgresStorage(db DBTX) *PostgresStorage {
	if db == nil {
		panic("history: database handle cannot be nil")
	}
	return &PostgresStorage{db: db}
}

// WithTx returns a storage bound to the given transaction. Records stored
// through it commit or roll back with the surrounding transaction.
func (s *PostgresStorage) WithTx(tx pgx.Tx) *PostgresStorage {
	return &PostgresStorage{db: tx}
}

const insertRecordSQL = `
INSERT INTO transition_history (
	id, entity_type, entity_id, field, from_state, to_state,
	performer_id, reason, metadata, result, error_code, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (s *PostgresStorage) Store(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, insertRecordSQL,
		record.ID,
		record.EntityType,
		record.EntityID,
		record.Field,
		record.FromState,
		record.ToState,
		record.PerformerID,
		record.Reason,
		record.Metadata,
		string(record.Result),
		record.ErrorCode,
		record.CreatedAt,
	)
	if err != nil {
		return classifyPgError(err, record.ID)
	}
	return nil
}

// StoreBatch inserts records in a single batch. Used by the async wrapper.
func (s *PostgresStorage) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
		batch.Queue(insertRecordSQL,
			record.ID,
			record.EntityType,
			record.EntityID,
			record.Field,
			record.FromState,
			record.ToState,
			record.PerformerID,
			record.Reason,
			record.Metadata,
			string(record.Result),
			record.ErrorCode,
			record.CreatedAt,
		)
	}

	sender, ok := s.db.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		for _, record := range records {
			if err := s.Store(ctx, record); err != nil {
				return err
			}
		}
		return nil
	}

	results := sender.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()
	for range records {
		if _, err := results.Exec(); err != nil {
			return classifyPgError(err, "")
		}
	}
	return nil
}

func (s *PostgresStorage) Query(ctx context.Context, criteria Criteria) ([]Record, error) {
	where, args := buildWhere(criteria)

	var sb strings.Builder
	sb.WriteString(`SELECT id, entity_type, entity_id, field, from_state, to_state,
		performer_id, reason, metadata, result, error_code, created_at
		FROM transition_history`)
	sb.WriteString(where)
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	if criteria.Limit > 0 {
		args = append(args, criteria.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if criteria.Cursor == "" && criteria.Offset > 0 {
		args = append(args, criteria.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.Join(ErrStorageNotAvailable, err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		var result string
		if err := rows.Scan(
			&r.ID, &r.EntityType, &r.EntityID, &r.Field, &r.FromState, &r.ToState,
			&r.PerformerID, &r.Reason, &r.Metadata, &result, &r.ErrorCode, &r.CreatedAt,
		); err != nil {
			return nil, errors.Join(ErrStorageNotAvailable, err)
		}
		r.Result = Result(result)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorageNotAvailable, err)
	}
	return records, nil
}

// Count implements StorageCounter with a server-side count
func (s *PostgresStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	where, args := buildWhere(criteria)

	var n int64
	query := "SELECT COUNT(*) FROM transition_history" + where
	if err := s.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Join(ErrStorageNotAvailable, err)
	}
	return n, nil
}

// buildWhere assembles the WHERE clause for the criteria's filters. The
// cursor condition keys on (created_at, id) of the cursor record so
// pagination stays stable under concurrent inserts.
func buildWhere(criteria Criteria) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if criteria.EntityType != "" {
		add("entity_type = $%d", criteria.EntityType)
	}
	if criteria.EntityID != "" {
		add("entity_id = $%d", criteria.EntityID)
	}
	if criteria.Field != "" {
		add("field = $%d", criteria.Field)
	}
	if criteria.FromState != "" {
		add("from_state = $%d", criteria.FromState)
	}
	if criteria.ToState != "" {
		add("to_state = $%d", criteria.ToState)
	}
	if criteria.PerformerID != "" {
		add("performer_id = $%d", criteria.PerformerID)
	}
	if criteria.Automated != nil {
		if *criteria.Automated {
			conds = append(conds, "performer_id IS NULL")
		} else {
			conds = append(conds, "performer_id IS NOT NULL")
		}
	}
	if criteria.Result != "" {
		add("result = $%d", string(criteria.Result))
	}
	if !criteria.Since.IsZero() {
		add("created_at >= $%d", criteria.Since)
	}
	if !criteria.Until.IsZero() {
		add("created_at <= $%d", criteria.Until)
	}
	if criteria.Cursor != "" {
		args = append(args, criteria.Cursor)
		conds = append(conds, fmt.Sprintf(
			"(created_at, id) < (SELECT created_at, id FROM transition_history WHERE id = $%d)",
			len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func classifyPgError(err error, recordID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if recordID != "" {
			return fmt.Errorf("%w: %s", ErrDuplicateRecord, recordID)
		}
		return ErrDuplicateRecord
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrStorageTimeout, err)
	}
	return errors.Join(ErrStorageNotAvailable, err)
}
