// Package dispatch owns per-folder supervisors: it consumes settled watch
// events, gates them through the in-flight path set, selects the highest
// priority matching rule, and records a run around the chain execution.
package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Roelanb/organize/internal/actions"
	"github.com/Roelanb/organize/internal/config"
	"github.com/Roelanb/organize/internal/metadata"
	"github.com/Roelanb/organize/internal/rules"
	"github.com/Roelanb/organize/internal/store"
	"github.com/Roelanb/organize/internal/template"
	"github.com/Roelanb/organize/internal/watch"
)

// Manager starts and stops one supervisor per watched folder and routes
// events into rule execution.
type Manager struct {
	log      *zap.SugaredLogger
	store    store.Store
	provider *config.Provider
	exec     actions.Executor
	capturer metadata.Capturer

	mu          sync.Mutex
	supervisors map[string]*supervisor
	inflight    *inflight
}

func NewManager(log *zap.SugaredLogger, st store.Store, provider *config.Provider, capturer metadata.Capturer) *Manager {
	cfg := provider.Current()
	return &Manager{
		log:      log,
		store:    st,
		provider: provider,
		exec: actions.Executor{
			Resolver:   actions.Resolver{},
			Compressor: actions.Compressor{Binary: cfg.Runtime.GhostscriptPath},
			Paths:      provider.PlaceholderPaths,
		},
		capturer:    capturer,
		supervisors: map[string]*supervisor{},
		inflight:    newInflight(),
	}
}

// ApplyRules reloads enabled rules from the store and starts/stops folder
// supervisors to match their trigger folders. A rule whose folder cannot be
// watched is logged and skipped; it never stops the other folders.
func (m *Manager) ApplyRules(ctx context.Context) error {
	enabled, err := m.store.ListEnabledRules()
	if err != nil {
		return err
	}
	cfg := m.provider.Current()
	exp := template.Expander{}

	byFolder := map[string][]rules.Rule{}
	for _, r := range enabled {
		folder := exp.Destination(r.Trigger.Config.Folder, cfg.Paths, nil, "")
		if folder == "" {
			m.log.Warnw("rule has no trigger folder", "rule", r.ID)
			continue
		}
		byFolder[folder] = append(byFolder[folder], r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for folder, sup := range m.supervisors {
		if _, ok := byFolder[folder]; !ok {
			sup.stop()
			delete(m.supervisors, folder)
			m.log.Infow("stopped watching folder", "folder", folder)
		}
	}

	for folder, rs := range byFolder {
		if sup, ok := m.supervisors[folder]; ok {
			sup.setRules(rs)
			continue
		}
		sup, err := m.newSupervisor(ctx, folder, rs, cfg)
		if err != nil {
			m.log.Warnw("cannot watch folder", "folder", folder, "error", err)
			continue
		}
		m.supervisors[folder] = sup
		m.log.Infow("watching folder", "folder", folder, "rules", len(rs))
	}
	return nil
}

// Stop cancels all supervisors and waits for in-flight chains to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	sups := make([]*supervisor, 0, len(m.supervisors))
	for folder, sup := range m.supervisors {
		sups = append(sups, sup)
		delete(m.supervisors, folder)
	}
	m.mu.Unlock()
	for _, sup := range sups {
		sup.stop()
	}
}

type supervisor struct {
	folder string
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	rules []rules.Rule
}

func (s *supervisor) setRules(rs []rules.Rule) {
	s.mu.Lock()
	s.rules = rs
	s.mu.Unlock()
}

func (s *supervisor) currentRules() []rules.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules
}

func (s *supervisor) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (m *Manager) newSupervisor(parent context.Context, folder string, rs []rules.Rule, cfg *config.Config) (*supervisor, error) {
	ctx, cancel := context.WithCancel(parent)

	w, err := watch.New(watch.Options{
		Directory:     folder,
		Debounce:      time.Duration(cfg.Runtime.DebounceMs) * time.Millisecond,
		Stabilization: time.Duration(cfg.Runtime.StabilizationMs) * time.Millisecond,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	events, err := w.Start(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &supervisor{folder: folder, cancel: cancel, rules: rs}

	// Event pump: one goroutine per accepted path. Distinct paths run
	// concurrently with no cap; duplicates are rejected by the in-flight
	// set until the settle delay clears them.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !m.inflight.tryAcquire(ev.Path) {
					m.log.Debugw("duplicate event suppressed", "path", ev.Path)
					continue
				}
				s.wg.Add(1)
				go func(ev watch.Event) {
					defer s.wg.Done()
					m.handle(ctx, s.currentRules(), ev)
					settle := time.Duration(m.provider.Current().Runtime.SettleDelayMs) * time.Millisecond
					m.inflight.releaseAfter(ev.Path, settle)
				}(ev)
			}
		}
	}()
	return s, nil
}

// triggerAccepts maps a rule's trigger type onto watcher event kinds. A rule
// without a type reacts to both.
func triggerAccepts(tt rules.TriggerType, kind watch.EventKind) bool {
	switch tt {
	case rules.TriggerFileAdded:
		return kind == watch.KindCreated
	case rules.TriggerFileModified:
		return kind == watch.KindModified
	}
	return true
}

// handle runs the highest-priority matching rule for one event. Nothing in
// here is fatal: a failing chain is recorded and the dispatcher moves on.
func (m *Manager) handle(ctx context.Context, rs []rules.Rule, ev watch.Event) {
	candidates := make([]rules.Rule, 0, len(rs))
	for _, r := range rs {
		if triggerAccepts(r.Trigger.Type, ev.Kind) {
			candidates = append(candidates, r)
		}
	}
	matched := rules.Select(candidates, ev.Path)
	if len(matched) == 0 {
		m.log.Debugw("no rule matched", "path", ev.Path, "kind", ev.Kind)
		return
	}
	rule := matched[0]

	size := "unknown"
	if info, err := os.Stat(ev.Path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	m.log.Infow("rule fired", "rule", rule.Name, "path", ev.Path, "kind", ev.Kind, "size", size)

	meta := m.capturer.Capture(ctx)

	run := store.NewRun(rule, ev.Path)
	if err := m.store.RecordRun(run); err != nil {
		m.log.Errorw("record run failed", "rule", rule.ID, "path", ev.Path, "error", err)
	}

	results := m.exec.Execute(ctx, rule.Actions, ev.Path, meta, false)

	status := store.RunCompleted
	errMsg := ""
	for _, res := range results {
		if !res.Success {
			status = store.RunFailed
			if errMsg == "" {
				errMsg = res.Error
			}
		}
	}
	if err := m.store.MarkRun(run, status, results, errMsg); err != nil {
		m.log.Errorw("mark run failed", "run", run.ID, "error", err)
	}

	if status == store.RunFailed {
		m.log.Warnw("chain finished with failures", "rule", rule.Name, "path", ev.Path, "run", run.ID, "error", errMsg)
	} else {
		m.log.Infow("chain completed", "rule", rule.Name, "path", ev.Path, "run", run.ID, "actions", len(results))
	}
}

// Preview resolves path against the enabled rule set in dry-run mode: the
// full resolution pipeline runs but nothing on disk changes. It returns the
// rule that would fire and the per-action results, or a nil rule when
// nothing matches. Only rules watching the file's folder are candidates,
// the same scoping the supervisors apply to live events.
func (m *Manager) Preview(ctx context.Context, path string) (*rules.Rule, []actions.ActionResult, error) {
	enabled, err := m.store.ListEnabledRules()
	if err != nil {
		return nil, nil, err
	}
	cfg := m.provider.Current()
	exp := template.Expander{}
	dir := filepath.Dir(filepath.Clean(path))

	scoped := make([]rules.Rule, 0, len(enabled))
	for _, r := range enabled {
		folder := exp.Destination(r.Trigger.Config.Folder, cfg.Paths, nil, "")
		if folder != "" && filepath.Clean(folder) == dir {
			scoped = append(scoped, r)
		}
	}
	matched := rules.Select(scoped, path)
	if len(matched) == 0 {
		return nil, nil, nil
	}
	rule := matched[0]
	meta := m.capturer.Capture(ctx)
	results := m.exec.Execute(ctx, rule.Actions, path, meta, true)
	return &rule, results, nil
}
