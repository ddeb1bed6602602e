package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const sessionFile = "session.json"

// Session identifies a reviewer's desk session. The ID travels with every
// mutating API call so server-side audit entries can be tied back to one
// sitting.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
}

// GetOrCreate loads the current session or starts a new one. Sessions
// expire after 12 hours so audit trails do not conflate different days.
func GetOrCreate(dir string) (*Session, error) {
	path := filepath.Join(dir, sessionFile)

	if data, err := os.ReadFile(path); err == nil {
		var sess Session
		if err := json.Unmarshal(data, &sess); err == nil && !sess.expired() {
			return &sess, nil
		}
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}
	if err := save(path, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Session) expired() bool {
	return time.Since(s.StartedAt) > 12*time.Hour
}

func newSession() (*Session, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	return &Session{
		ID:        "rs-" + hex.EncodeToString(bytes),
		StartedAt: time.Now(),
	}, nil
}

func save(path string, sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
