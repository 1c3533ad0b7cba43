package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/gasbank/internal/backup"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/session"
	"github.com/abhisek/gasbank/internal/userstate"
)

var testNow = time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

// fakeService records saves and backups in memory.
type fakeService struct {
	mu        sync.Mutex
	questions []question.Question
	initial   *userstate.State
	saves     []*userstate.State
	saveErr   error
	backups   []string
	backupErr error
	// gate, when set, blocks WriteBackup until closed.
	gate     chan struct{}
	resetErr error
}

func (f *fakeService) Load(context.Context) ([]question.Question, *userstate.State, error) {
	if f.initial == nil {
		return f.questions, userstate.Default(), nil
	}
	return f.questions, f.initial, nil
}

func (f *fakeService) Save(_ context.Context, st *userstate.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, st)
	return nil
}

func (f *fakeService) ResetAll(context.Context) (*userstate.State, error) {
	if f.resetErr != nil {
		return nil, f.resetErr
	}
	return userstate.Default(), nil
}

func (f *fakeService) WriteBackup(_ context.Context, dir string, _ *userstate.State) (backup.Result, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.backupErr != nil {
		return backup.Result{}, f.backupErr
	}
	path := filepath.Join(dir, fmt.Sprintf("backup-%d.json", len(f.backups)+1))
	f.backups = append(f.backups, path)
	return backup.Result{Path: path, Timestamp: testNow}, nil
}

func (f *fakeService) backupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.backups)
}

func (f *fakeService) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func mcq(id, category, difficulty string, correct int) question.Question {
	q := question.Question{ID: id, Category: category, Difficulty: difficulty, Text: "prompt " + id}
	for i := 0; i < 4; i++ {
		q.Answers = append(q.Answers, question.AnswerChoice{Text: fmt.Sprintf("choice %d", i), IsCorrect: i == correct})
	}
	return q
}

func testCatalog() []question.Question {
	return []question.Question{
		mcq("A1", "Airway", "medium", 0),
		mcq("A2", "Airway", "medium", 1),
		mcq("A3", "Airway", "medium", 2),
		mcq("V1", "Vascular", "hard", 3),
		mcq("V2", "Vascular", "hard", 0),
	}
}

// noticeLog collects notices from any goroutine.
type noticeLog struct {
	mu  sync.Mutex
	all []Notice
}

func (n *noticeLog) add(x Notice) {
	n.mu.Lock()
	n.all = append(n.all, x)
	n.mu.Unlock()
}

func (n *noticeLog) last() Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.all) == 0 {
		return Notice{}
	}
	return n.all[len(n.all)-1]
}

func (n *noticeLog) contains(msg string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, x := range n.all {
		if x.Message == msg {
			return true
		}
	}
	return false
}

func newTestCoordinator(t *testing.T, svc *fakeService) (*Coordinator, *noticeLog) {
	t.Helper()
	if svc.questions == nil {
		svc.questions = testCatalog()
	}
	n := 0
	m := session.New(
		session.WithClock(func() time.Time { return testNow }),
		session.WithIDs(func() string { n++; return fmt.Sprintf("session-%d", n) }),
	)
	c := New(svc, WithClock(func() time.Time { return testNow }), WithMachine(m))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	notices := &noticeLog{}
	c.OnNotice(notices.add)
	t.Cleanup(c.Wait)
	return c, notices
}

func orderedConfig(mode userstate.Mode, n int) userstate.SessionConfig {
	cfg := userstate.DefaultSessionConfig()
	cfg.Mode = mode
	cfg.NumQuestions = n
	cfg.Randomize = false
	cfg.StatusFilter = userstate.StatusFilterAll
	return cfg
}
