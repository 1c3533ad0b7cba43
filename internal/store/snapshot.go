package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/gasbank/internal/userstate"
)

// Snapshot is a point-in-time copy of the user state.
type Snapshot struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	State     *userstate.State
}

// SnapshotRepo manages user state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the snapshot with the highest sequence, or nil if none
	// exist. Ties go to the most recently written.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Clear deletes every snapshot.
	Clear(ctx context.Context) error
}

type snapshotRepo struct {
	drv *entsql.Driver
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := snap.State.Encode()
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	query, args := builder().
		Insert(snapshotsTable).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UnixMilli(), string(data)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	b := builder()
	query, args := b.Select("id", "sequence", "timestamp", "data").
		From(b.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence"), entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var (
		snap Snapshot
		ms   int64
		data string
	)
	if err := rows.Scan(&snap.ID, &snap.Sequence, &ms, &data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	st, err := userstate.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %d: %w", snap.ID, err)
	}
	snap.Timestamp = time.UnixMilli(ms).UTC()
	snap.State = st
	return &snap, rows.Err()
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	b := builder()
	query, args := b.Select("id").
		From(b.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence"), entsql.Desc("id")).
		Limit(keep).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var ids []any
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(ids) < keep {
		return nil // fewer than keep snapshots exist
	}

	query, args = builder().
		Delete(snapshotsTable).
		Where(entsql.NotIn("id", ids...)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(snapshotsTable).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}
