// Package installer runs the provisioning pipeline: probe the host, scaffold
// the workspace, build the venv, install dependencies, materialize the env
// file, initialize the database, and optionally register the systemd unit.
// Steps run in order and the first failure aborts the run. Every step outcome
// is journaled in the installation database.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"botstrap/internal/profile"
	"botstrap/internal/prompt"
	"botstrap/internal/store"
	"botstrap/internal/workspace"
)

// ErrLocked is returned when another installer holds the workspace lock.
var ErrLocked = errors.New("another installer is already running against this directory")

// ErrAborted is returned when the operator declines to continue.
var ErrAborted = errors.New("installation aborted by operator")

// errSkipped marks a step that chose not to run. It never escapes Run.
var errSkipped = errors.New("step skipped")

// Options configures a pipeline run.
type Options struct {
	Base     string
	Python   string
	Version  string
	Prompter prompt.Prompter
	Logger   *slog.Logger

	// Profile answers all prompts for unattended runs.
	Profile *profile.Profile

	AssumeYes        bool
	SkipVenv         bool
	SkipService      bool
	OverwriteEnv     bool
	ContinueNoFFmpeg bool
}

// Report summarizes a finished (or aborted) run.
type Report struct {
	RunID     string
	Succeeded bool
	Steps     []store.StepResult
}

// Installer drives one provisioning run.
type Installer struct {
	opts   Options
	layout workspace.Layout
	log    *slog.Logger

	store   *store.Store
	runID   string
	pending []store.StepResult
}

// New builds an installer for the given options. Prompter and Logger must be
// set; Profile is optional.
func New(opts Options) *Installer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Installer{
		opts:   opts,
		layout: workspace.New(opts.Base),
		log:    log,
	}
}

type step struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// Run executes the pipeline. The workspace lock guarantees a single operator
// per target directory.
func (i *Installer) Run(ctx context.Context) (*Report, error) {
	lock := flock.New(i.layout.LockFile())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire install lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer lock.Unlock()

	i.runID = uuid.NewString()
	i.log.Info("starting installation", "run_id", i.runID, "dir", i.layout.Base)

	steps := []step{
		{"probe", i.stepProbe},
		{"scaffold", i.stepScaffold},
		{"database", i.stepDatabase},
		{"venv", i.stepVenv},
		{"dependencies", i.stepDependencies},
		{"environment", i.stepEnvironment},
		{"languages", i.stepLanguages},
		{"service", i.stepService},
	}

	report := &Report{RunID: i.runID}
	defer func() {
		if i.store != nil {
			i.store.Close()
		}
	}()

	for _, s := range steps {
		result, err := i.runStep(ctx, s)
		report.Steps = append(report.Steps, result)
		if err != nil {
			i.finish(ctx, false)
			return report, fmt.Errorf("step %s: %w", s.name, err)
		}
	}

	i.finish(ctx, true)
	report.Succeeded = true
	i.log.Info("installation complete", "run_id", i.runID)
	return report, nil
}

func (i *Installer) runStep(ctx context.Context, s step) (store.StepResult, error) {
	started := time.Now()
	detail, err := s.run(ctx)
	result := store.StepResult{
		Name:     s.name,
		Status:   store.StepOK,
		Detail:   detail,
		Duration: time.Since(started),
	}
	switch {
	case errors.Is(err, errSkipped):
		result.Status = store.StepSkipped
		err = nil
		i.log.Info("step skipped", "step", s.name, "detail", detail)
	case err != nil:
		result.Status = store.StepFailed
		result.Detail = err.Error()
		i.log.Error("step failed", "step", s.name, "error", err)
	default:
		i.log.Info("step complete", "step", s.name, "detail", detail, "duration", result.Duration)
	}
	i.record(ctx, result)
	return result, err
}

// record journals a step. Steps that run before the database exists are
// buffered and flushed once the store opens.
func (i *Installer) record(ctx context.Context, result store.StepResult) {
	if i.store == nil {
		i.pending = append(i.pending, result)
		return
	}
	if err := i.store.RecordStep(ctx, i.runID, result); err != nil {
		i.log.Warn("journal step", "step", result.Name, "error", err)
	}
}

func (i *Installer) flushPending(ctx context.Context) {
	for _, result := range i.pending {
		if err := i.store.RecordStep(ctx, i.runID, result); err != nil {
			i.log.Warn("journal step", "step", result.Name, "error", err)
		}
	}
	i.pending = nil
}

func (i *Installer) finish(ctx context.Context, succeeded bool) {
	if i.store == nil {
		return
	}
	if err := i.store.FinishRun(ctx, i.runID, succeeded); err != nil {
		i.log.Warn("journal run", "run_id", i.runID, "error", err)
	}
}

// confirm resolves a yes/no decision. Non-interactive runs accept the
// default answer; destructive choices keep their safe default and need an
// explicit flag instead.
func (i *Installer) confirm(label string, def bool) (bool, error) {
	if i.opts.AssumeYes {
		return def, nil
	}
	return i.opts.Prompter.Confirm(label, def)
}
