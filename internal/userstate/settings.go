package userstate

import (
	"encoding/json"
	"time"
)

// Theme is the presentation theme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
)

// ParseTheme returns t when it is a known theme and ThemeSystem otherwise.
func ParseTheme(t string) Theme {
	switch Theme(t) {
	case ThemeDark, ThemeLight, ThemeSystem:
		return Theme(t)
	}
	return ThemeSystem
}

// DefaultBackupInterval is the number of attempts between auto-backups.
const DefaultBackupInterval = 10

// BackupPreferences controls automatic backups.
type BackupPreferences struct {
	AutoEnabled bool `json:"autoEnabled"`
	Interval    int  `json:"interval"`
}

// DefaultBackupPreferences returns auto-backup enabled every 10 attempts.
func DefaultBackupPreferences() BackupPreferences {
	return BackupPreferences{AutoEnabled: true, Interval: DefaultBackupInterval}
}

// UnmarshalJSON keeps auto-backup enabled unless the document disables it.
func (p *BackupPreferences) UnmarshalJSON(data []byte) error {
	type plain BackupPreferences
	v := plain(DefaultBackupPreferences())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = BackupPreferences(v)
	if p.Interval < 1 {
		p.Interval = DefaultBackupInterval
	}
	return nil
}

// Settings are user preferences.
type Settings struct {
	Theme                Theme             `json:"theme"`
	DefaultSessionConfig SessionConfig     `json:"defaultSessionConfig"`
	BackupPreferences    BackupPreferences `json:"backupPreferences"`
}

// BackupState tracks where backups go and how many attempts happened since
// the last one.
type BackupState struct {
	CustomImageDirectory string     `json:"customImageDirectory,omitempty"`
	BackupDirectory      string     `json:"backupDirectory,omitempty"`
	AttemptsSinceBackup  int        `json:"attemptsSinceBackup"`
	LastBackupAt         *time.Time `json:"lastBackupAt,omitempty"`
}
