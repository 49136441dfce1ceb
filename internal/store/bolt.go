// Package store persists rules and run history as JSON documents in bbolt
// buckets. Runs transition running → completed|failed; the dispatcher records
// a run before executing a chain and marks it afterward.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/Roelanb/organize/internal/actions"
	"github.com/Roelanb/organize/internal/rules"
)

var (
	rulesBucket = []byte("rules")
	runsBucket  = []byte("runs")
)

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one execution of a rule's action chain against a file.
type Run struct {
	ID         string                 `json:"id"`
	RuleID     string                 `json:"ruleId"`
	RuleName   string                 `json:"ruleName"`
	Path       string                 `json:"path"`
	Status     RunStatus              `json:"status"`
	Results    []actions.ActionResult `json:"results,omitempty"`
	Error      string                 `json:"error,omitempty"`
	StartedAt  time.Time              `json:"startedAt"`
	FinishedAt *time.Time             `json:"finishedAt,omitempty"`
}

// NewRun builds a running-state record for the given rule and file.
func NewRun(r rules.Rule, path string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		RuleID:    r.ID,
		RuleName:  r.Name,
		Path:      path,
		Status:    RunRunning,
		StartedAt: time.Now(),
	}
}

// Store is the persistence contract the dispatcher and API consume.
type Store interface {
	Close() error
	ListRules() ([]rules.Rule, error)
	ListEnabledRules() ([]rules.Rule, error)
	GetRule(id string) (*rules.Rule, error)
	SaveRule(r *rules.Rule) error
	DeleteRule(id string) error
	RecordRun(run *Run) error
	MarkRun(run *Run, status RunStatus, results []actions.ActionResult, errMsg string) error
	RecentRuns(limit int) ([]Run, error)
}

type BoltStore struct {
	db *bolt.DB
}

func Open(path string) (*BoltStore, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(rulesBucket); e != nil {
			return e
		}
		if _, e := tx.CreateBucketIfNotExists(runsBucket); e != nil {
			return e
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) ListRules() ([]rules.Rule, error) {
	var out []rules.Rule
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(rulesBucket).ForEach(func(_, v []byte) error {
			var r rules.Rule
			if e := json.Unmarshal(v, &r); e != nil {
				return e
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) ListEnabledRules() ([]rules.Rule, error) {
	all, err := s.ListRules()
	if err != nil {
		return nil, err
	}
	enabled := all[:0]
	for _, r := range all {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	return enabled, nil
}

func (s *BoltStore) GetRule(id string) (*rules.Rule, error) {
	var out *rules.Rule
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(rulesBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		var r rules.Rule
		if e := json.Unmarshal(v, &r); e != nil {
			return e
		}
		out = &r
		return nil
	})
	return out, err
}

func (s *BoltStore) SaveRule(r *rules.Rule) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(rulesBucket).Put([]byte(r.ID), b)
	})
}

func (s *BoltStore) DeleteRule(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(rulesBucket).Delete([]byte(id))
	})
}

// runKey is time-prefixed so that cursor scans are chronological; the id
// suffix keeps keys unique and lets MarkRun recompute the key from the run.
func runKey(startedAt time.Time, id string) []byte {
	k := make([]byte, 8, 8+len(id))
	binary.BigEndian.PutUint64(k, uint64(startedAt.UnixNano()))
	return append(k, id...)
}

func (s *BoltStore) RecordRun(run *Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	k := runKey(run.StartedAt, run.ID)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put(k, b)
	})
}

func (s *BoltStore) MarkRun(run *Run, status RunStatus, results []actions.ActionResult, errMsg string) error {
	now := time.Now()
	run.Status = status
	run.Results = results
	run.Error = errMsg
	run.FinishedAt = &now
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	k := runKey(run.StartedAt, run.ID)
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(runsBucket)
		if bkt.Get(k) == nil {
			return fmt.Errorf("mark run: record missing for %s", run.ID)
		}
		return bkt.Put(k, b)
	})
}

// RecentRuns returns up to limit runs, newest first.
func (s *BoltStore) RecentRuns(limit int) ([]Run, error) {
	var out []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var run Run
			if e := json.Unmarshal(v, &run); e != nil {
				return e
			}
			out = append(out, run)
		}
		return nil
	})
	return out, err
}
