package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/suspenders-cli/suspenders/internal/branding"
)

const statusFileName = "version-check.json"

// MaxAge is how long a stored check is considered current.
const MaxAge = 24 * time.Hour

// Status is the outcome of the last release check.
type Status struct {
	Current         string    `json:"current_version"`
	Latest          string    `json:"latest_version"`
	URL             string    `json:"url,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// Stale reports whether the status is missing or older than maxAge.
func (s *Status) Stale(now time.Time, maxAge time.Duration) bool {
	return s == nil || now.Sub(s.CheckedAt) > maxAge
}

// LoadStatus reads the stored status. A missing file yields nil, nil.
func LoadStatus(dir string) (*Status, error) {
	data, err := os.ReadFile(filepath.Join(dir, statusFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version check: %w", err)
	}

	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing version check: %w", err)
	}
	return &st, nil
}

// SaveStatus writes st to dir, creating dir if needed.
func SaveStatus(dir string, st *Status) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version check: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, statusFileName), data, 0644); err != nil {
		return fmt.Errorf("writing version check: %w", err)
	}
	return nil
}

// Notice prints an update notice when the stored status, recorded by this
// same version, found a newer release. It never touches the network and
// ignores unreadable state.
func Notice(w io.Writer, dir, current string) {
	st, err := LoadStatus(dir)
	if err != nil || st == nil || !st.UpdateAvailable || st.Current != current {
		return
	}
	fmt.Fprintf(w, "\nUpdate available: %s -> %s\n", current, st.Latest)
	if st.URL != "" {
		fmt.Fprintf(w, "    %s\n", st.URL)
	}
	fmt.Fprintf(w, "    Run `%s version --check` to refresh\n", branding.CLIName())
}
