// Package coordinator owns the in-memory user state. Every command clones
// the current state, applies one mutation, swaps the result in and hands it
// to the persistence service in the background.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abhisek/gasbank/internal/backup"
	"github.com/abhisek/gasbank/internal/logger"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/session"
	"github.com/abhisek/gasbank/internal/userstate"
)

// Service is the persistence backend.
type Service interface {
	Load(ctx context.Context) ([]question.Question, *userstate.State, error)
	Save(ctx context.Context, st *userstate.State) error
	ResetAll(ctx context.Context) (*userstate.State, error)
	WriteBackup(ctx context.Context, dir string, st *userstate.State) (backup.Result, error)
}

// Mutation edits a draft copy of the state. Returning an error discards
// the draft.
type Mutation func(draft *userstate.State, bank *question.Bank) error

// Coordinator applies mutations and schedules persistence.
type Coordinator struct {
	svc     Service
	machine *session.Machine
	log     *logger.Logger
	now     func() time.Time
	ctx     context.Context

	mu      sync.RWMutex
	catalog []question.Question
	bank    *question.Bank
	state   *userstate.State

	notifyMu sync.RWMutex
	notify   func(Notice)

	backupInFlight atomic.Bool
	pending        sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithMachine sets the session state machine.
func WithMachine(m *session.Machine) Option {
	return func(c *Coordinator) { c.machine = m }
}

// WithContext sets the context used by background saves and backups.
func WithContext(ctx context.Context) Option {
	return func(c *Coordinator) { c.ctx = ctx }
}

// New creates a Coordinator with an empty catalog and default state. Call
// Load before use.
func New(svc Service, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:   svc,
		log:   logger.Nop(),
		now:   time.Now,
		ctx:   context.Background(),
		bank:  question.NewBank(nil, nil),
		state: userstate.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.machine == nil {
		c.machine = session.New(session.WithClock(c.now))
	}
	return c
}

// Load reads the catalog and the stored user state.
func (c *Coordinator) Load(ctx context.Context) error {
	qs, st, err := c.svc.Load(ctx)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	if st == nil {
		st = userstate.Default()
	}
	st.Normalize()

	c.mu.Lock()
	c.catalog = qs
	c.state = st
	c.bank = question.NewBank(qs, st.CustomQuestions)
	c.mu.Unlock()

	c.log.Info("loaded", "catalog", len(qs), "custom", len(st.CustomQuestions), "revision", st.Revision)
	return nil
}

// OnNotice registers the receiver of notices. It may be called from any
// goroutine; fn must be safe to call concurrently.
func (c *Coordinator) OnNotice(fn func(Notice)) {
	c.notifyMu.Lock()
	c.notify = fn
	c.notifyMu.Unlock()
}

func (c *Coordinator) emit(n Notice) {
	c.notifyMu.RLock()
	fn := c.notify
	c.notifyMu.RUnlock()
	if fn != nil {
		fn(n)
	}
}

// State returns the current state. The value is never mutated after it is
// published; callers must not modify it.
func (c *Coordinator) State() *userstate.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Bank returns the current question union.
func (c *Coordinator) Bank() *question.Bank {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bank
}

// Update applies fn to a copy of the state and publishes it. The new state
// is saved asynchronously; a save failure is reported as a notice and the
// in-memory state is kept.
func (c *Coordinator) Update(fn Mutation) error {
	c.mu.Lock()
	prev := c.state
	draft := prev.Clone()
	if err := fn(draft, c.bank); err != nil {
		c.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	draft.DedupeFlags()
	draft.Revision = prev.Revision + 1
	c.state = draft
	c.bank = question.NewBank(c.catalog, draft.CustomQuestions)
	c.mu.Unlock()

	c.persist(draft)
	if draft.Storage.AttemptsSinceBackup > prev.Storage.AttemptsSinceBackup {
		c.maybeAutoBackup(draft)
	}
	return nil
}

func (c *Coordinator) persist(st *userstate.State) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if err := c.svc.Save(c.ctx, st); err != nil {
			perr := &PersistenceError{Op: "save", Err: err}
			c.log.Error("save failed", "revision", st.Revision, "error", perr)
			c.emit(failure("Failed to save changes locally."))
		}
	}()
}

// Wait blocks until background saves and backups finish.
func (c *Coordinator) Wait() {
	c.pending.Wait()
}
