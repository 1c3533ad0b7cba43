package coordinator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/abhisek/gasbank/internal/backup"
	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/userstate"
)

// maybeAutoBackup starts a background backup when auto-backup is enabled, a
// directory is set and enough attempts have accumulated. At most one runs
// at a time; triggers during a running backup are dropped.
func (c *Coordinator) maybeAutoBackup(st *userstate.State) {
	prefs := st.Settings.BackupPreferences
	dir := st.Storage.BackupDirectory
	if !prefs.AutoEnabled || dir == "" || st.Storage.AttemptsSinceBackup < prefs.Interval {
		return
	}
	if !c.backupInFlight.CompareAndSwap(false, true) {
		c.log.Debug("auto-backup already in flight")
		return
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		defer c.backupInFlight.Store(false)

		c.log.Info("auto-backup triggered", "attempts", st.Storage.AttemptsSinceBackup, "dir", dir)
		res, err := c.svc.WriteBackup(c.ctx, dir, st)
		if err != nil {
			c.log.Error("auto-backup failed", "error", &PersistenceError{Op: "backup", Err: err})
			c.emit(failure("Auto-backup failed."))
			return
		}
		if err := c.markBackedUp(res); err != nil {
			c.log.Error("record backup failed", "error", err)
			return
		}
		c.emit(success("Auto-backup saved (%s).", filepath.Base(res.Path)))
	}()
}

func (c *Coordinator) markBackedUp(res backup.Result) error {
	return c.Update(func(d *userstate.State, _ *question.Bank) error {
		ts := res.Timestamp
		d.Storage.LastBackupAt = &ts
		d.Storage.AttemptsSinceBackup = 0
		return nil
	})
}

// BackupNow writes a backup synchronously.
func (c *Coordinator) BackupNow(ctx context.Context) (backup.Result, error) {
	st := c.State()
	dir := st.Storage.BackupDirectory
	if dir == "" {
		c.emit(failure("Choose a backup directory first."))
		return backup.Result{}, ErrNoBackupDirectory
	}
	res, err := c.svc.WriteBackup(ctx, dir, st)
	if err != nil {
		perr := &PersistenceError{Op: "backup", Err: err}
		c.log.Error("backup failed", "error", perr)
		c.emit(failure("Failed to create backup."))
		return backup.Result{}, perr
	}
	if err := c.markBackedUp(res); err != nil {
		return res, err
	}
	c.log.Info("backup written", "path", res.Path)
	c.emit(success("Backup saved (%s).", filepath.Base(res.Path)))
	return res, nil
}

// ChooseBackupDirectory sets where backups are written.
func (c *Coordinator) ChooseBackupDirectory(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		c.emit(failure("Failed to select backup directory."))
		return ErrNoBackupDirectory
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.Storage.BackupDirectory = dir
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(success("Backup directory updated."))
	return nil
}

// ClearBackupDirectory unsets the backup directory, disabling backups.
func (c *Coordinator) ClearBackupDirectory() error {
	err := c.Update(func(d *userstate.State, _ *question.Bank) error {
		d.Storage.BackupDirectory = ""
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(success("Backup directory cleared."))
	return nil
}

// BackupPatch changes backup preferences. Nil fields are left alone.
type BackupPatch struct {
	AutoEnabled *bool
	Interval    *int
}

// SetBackupPreferences applies p. The interval is kept at least 1.
func (c *Coordinator) SetBackupPreferences(p BackupPatch) error {
	return c.Update(func(d *userstate.State, _ *question.Bank) error {
		prefs := &d.Settings.BackupPreferences
		if p.AutoEnabled != nil {
			prefs.AutoEnabled = *p.AutoEnabled
		}
		if p.Interval != nil {
			prefs.Interval = max(1, *p.Interval)
		}
		if prefs.Interval < 1 {
			prefs.Interval = userstate.DefaultBackupInterval
		}
		return nil
	})
}

// ImportBackup replaces the user state with the contents of a backup file.
func (c *Coordinator) ImportBackup(path string) error {
	restored, err := backup.Read(path)
	if err != nil {
		c.log.Warn("import backup failed", "path", path, "error", err)
		c.emit(failure("Failed to import backup."))
		return err
	}
	err = c.Update(func(d *userstate.State, _ *question.Bank) error {
		*d = *restored
		return nil
	})
	if err != nil {
		return err
	}
	c.log.Info("backup imported", "path", path)
	c.emit(success("Backup imported."))
	return nil
}

// ResetAll replaces the user state with factory defaults.
func (c *Coordinator) ResetAll(ctx context.Context) error {
	defaults, err := c.svc.ResetAll(ctx)
	if err != nil {
		perr := &PersistenceError{Op: "reset", Err: err}
		c.log.Error("reset failed", "error", perr)
		c.emit(failure("Failed to reset progress."))
		return perr
	}
	defaults.Normalize()
	err = c.Update(func(d *userstate.State, _ *question.Bank) error {
		*d = *defaults
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(success("Progress reset."))
	return nil
}
