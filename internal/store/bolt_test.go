package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roelanb/organize/internal/actions"
	"github.com/Roelanb/organize/internal/rules"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndListRules(t *testing.T) {
	s := openTestStore(t)

	r := &rules.Rule{
		Name:     "pdfs to archive",
		Enabled:  true,
		Priority: 10,
		Trigger:  rules.Trigger{Type: rules.TriggerFileAdded, Config: rules.TriggerConfig{Folder: "{downloads}"}},
		Actions:  []rules.Action{{Type: rules.ActionMove, Destination: "{documents}/Archive"}},
	}
	require.NoError(t, s.SaveRule(r))
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	disabled := &rules.Rule{Name: "off", Enabled: false,
		Trigger: rules.Trigger{Config: rules.TriggerConfig{Folder: "{downloads}"}},
		Actions: []rules.Action{{Type: rules.ActionCopy, Destination: "{documents}"}}}
	require.NoError(t, s.SaveRule(disabled))

	all, err := s.ListRules()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	enabled, err := s.ListEnabledRules()
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "pdfs to archive", enabled[0].Name)
}

func TestGetAndDeleteRule(t *testing.T) {
	s := openTestStore(t)

	r := &rules.Rule{Name: "x", Enabled: true,
		Trigger: rules.Trigger{Config: rules.TriggerConfig{Folder: "{downloads}"}},
		Actions: []rules.Action{{Type: rules.ActionMove, Destination: "{documents}"}}}
	require.NoError(t, s.SaveRule(r))

	got, err := s.GetRule(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Name)

	require.NoError(t, s.DeleteRule(r.ID))
	got, err = s.GetRule(r.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)

	rule := rules.Rule{ID: "r1", Name: "move pdfs"}
	run := NewRun(rule, "/tmp/a.pdf")
	assert.Equal(t, RunRunning, run.Status)
	require.NoError(t, s.RecordRun(run))

	results := []actions.ActionResult{{Action: rules.ActionMove, Success: true, Path: "/tmp/dest/a.pdf"}}
	require.NoError(t, s.MarkRun(run, RunCompleted, results, ""))

	recent, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, RunCompleted, recent[0].Status)
	assert.Equal(t, "move pdfs", recent[0].RuleName)
	require.Len(t, recent[0].Results, 1)
	assert.True(t, recent[0].Results[0].Success)
	require.NotNil(t, recent[0].FinishedAt)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	rule := rules.Rule{ID: "r1", Name: "r"}
	first := NewRun(rule, "/tmp/first.pdf")
	require.NoError(t, s.RecordRun(first))

	second := NewRun(rule, "/tmp/second.pdf")
	second.StartedAt = first.StartedAt.Add(time.Second)
	require.NoError(t, s.RecordRun(second))

	recent, err := s.RecentRuns(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "/tmp/second.pdf", recent[0].Path)

	both, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "/tmp/second.pdf", both[0].Path)
	assert.Equal(t, "/tmp/first.pdf", both[1].Path)
}
