package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gasbank/internal/backup"
	"github.com/abhisek/gasbank/internal/logger"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// CatalogSource provides the fixed question catalog.
type CatalogSource interface {
	Load() ([]question.Question, error)
}

// Service is the persistence service used by the coordinator: catalog and
// user state loading, snapshot saving, factory reset and backup writing.
type Service struct {
	snapshots SnapshotRepo
	catalog   CatalogSource
	backups   backup.Writer
	keep      int
	now       func() time.Time
	log       *logger.Logger
}

// NewService wires a Service. keep is the number of snapshots retained.
func NewService(snapshots SnapshotRepo, catalog CatalogSource, keep int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		snapshots: snapshots,
		catalog:   catalog,
		backups:   backup.Writer{},
		keep:      keep,
		now:       time.Now,
		log:       log,
	}
}

// Load reads the catalog and the latest user state concurrently. With no
// stored snapshot the factory defaults are returned.
func (s *Service) Load(ctx context.Context) ([]question.Question, *userstate.State, error) {
	var (
		qs   []question.Question
		snap *Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		qs, err = s.catalog.Load()
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = s.snapshots.Latest(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if snap == nil {
		s.log.Info("no stored user state, starting fresh")
		return qs, userstate.Default(), nil
	}
	s.log.Debug("loaded user state", "snapshot", snap.ID, "revision", snap.Sequence)
	return qs, snap.State, nil
}

// Save stores st as a new snapshot and prunes old ones. Prune failures are
// logged, not returned.
func (s *Service) Save(ctx context.Context, st *userstate.State) error {
	snap := &Snapshot{Sequence: st.Revision, Timestamp: s.now(), State: st}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return err
	}
	if err := s.snapshots.Prune(ctx, s.keep); err != nil {
		s.log.Warn("prune snapshots failed", "error", err)
	}
	return nil
}

// ResetAll deletes stored snapshots and returns factory defaults.
func (s *Service) ResetAll(ctx context.Context) (*userstate.State, error) {
	if err := s.snapshots.Clear(ctx); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return userstate.Default(), nil
}

// WriteBackup writes st to a timestamped file in dir.
func (s *Service) WriteBackup(ctx context.Context, dir string, st *userstate.State) (backup.Result, error) {
	return s.backups.Write(ctx, dir, st)
}
