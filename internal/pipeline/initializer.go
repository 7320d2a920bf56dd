package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chainkit-labs/hardhat-create-app/internal/configpatch"
	"github.com/chainkit-labs/hardhat-create-app/internal/pkgjson"
	"github.com/chainkit-labs/hardhat-create-app/internal/pkgmgr"
	"github.com/chainkit-labs/hardhat-create-app/internal/platform"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
	"github.com/chainkit-labs/hardhat-create-app/internal/ux"
)

// Outcome describes a finished run.
type Outcome struct {
	Name    string
	Root    string
	Variant Variant
	// Completed lists the stages that finished, in order.
	Completed []string
	// Missed lists config patches whose anchor was not found.
	Missed []configpatch.Patch
	// Files lists the template files written, relative to Root.
	Files []string
	// Issues lists package.json schema findings.
	Issues []pkgjson.ValidationIssue
	// Scripts holds the script names package.json defines after the run.
	// Nil means they were never read.
	Scripts []string
	// Adapter is the package-manager adapter the run used.
	Adapter pkgmgr.Adapter
}

// Initializer runs the generation flow.
type Initializer struct {
	Runner  runner.Runner
	Out     io.Writer
	Logger  *slog.Logger
	Options Options
}

func (in *Initializer) out() io.Writer {
	if in.Out == nil {
		return io.Discard
	}
	return in.Out
}

func (in *Initializer) logger() *slog.Logger {
	if in.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return in.Logger
}

// prepare validates the request and builds everything a run needs without
// touching the filesystem.
func (in *Initializer) prepare(name string, r runner.Runner) (*Request, pkgmgr.Adapter, []Stage, error) {
	opts := in.Options
	if opts.Variant == "" {
		opts.Variant = NPM
	}

	req, err := NewRequest(name, opts.Variant)
	if err != nil {
		return nil, nil, nil, err
	}

	adapter, err := pkgmgr.New(opts.Variant.String(), r, pkgmgr.Options{YarnVersion: opts.YarnVersion})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	stages, err := Definition(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := CheckOrder(stages); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid stage order: %w", err)
	}
	return req, adapter, stages, nil
}

// Run generates the project name. The project directory is created if
// needed; stages then run in order and the first failure is returned as a
// *StageError.
func (in *Initializer) Run(ctx context.Context, name string) (*Outcome, error) {
	if in.Runner == nil {
		return nil, errors.New("pipeline: no command runner configured")
	}

	req, adapter, stages, err := in.prepare(name, in.Runner)
	if err != nil {
		return nil, err
	}

	log := in.logger().With("root", req.Root, "variant", req.Variant.String())
	out := in.out()

	if err := os.MkdirAll(req.Root, platform.DirPerm); err != nil {
		return nil, fmt.Errorf("creating project directory %s: %w", req.Root, err)
	}

	fmt.Fprintln(out, ux.Styles.Title.Render(fmt.Sprintf("Creating a new Hardhat project in %s.", req.Root)))

	outcome := &Outcome{Name: req.Name, Root: req.Root, Variant: req.Variant, Adapter: adapter}
	env := &Env{Root: req.Root, Adapter: adapter, Out: out, Logger: log, Outcome: outcome}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return outcome, &StageError{Stage: stage.Name, Err: err}
		}

		ux.Step(out, stage.Label)
		log.Debug("stage starting", "stage", stage.Name)

		if err := checkArtifacts(req.Root, stage); err != nil {
			return outcome, &StageError{Stage: stage.Name, Err: err}
		}
		if err := stage.Run(ctx, env); err != nil {
			log.Debug("stage failed", "stage", stage.Name, "error", err)
			return outcome, &StageError{Stage: stage.Name, Err: err}
		}
		outcome.Completed = append(outcome.Completed, stage.Name)
	}

	log.Info("project created", "stages", len(outcome.Completed), "missed_patches", len(outcome.Missed))
	return outcome, nil
}

// checkArtifacts fails when a file the stage requires is not on disk.
func checkArtifacts(root string, stage Stage) error {
	for _, a := range stage.Requires {
		rel, ok := onDisk[a]
		if !ok {
			continue
		}
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrMissingArtifact, path)
			}
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}
	return nil
}

// PlanStep describes one stage of a planned run.
type PlanStep struct {
	Name      string
	Label     string
	DependsOn []string
	// Commands are the external commands the stage runs.
	Commands []runner.Command
	// Action describes filesystem work for stages without commands.
	Action string
}

// PlanResult is the dry-run view of a request.
type PlanResult struct {
	Name    string
	Root    string
	Variant Variant
	Steps   []PlanStep
}

// Plan resolves name and lists the stages and commands Run would execute
// without creating or running anything.
func (in *Initializer) Plan(ctx context.Context, name string) (*PlanResult, error) {
	rec := &runner.Recorder{}
	req, adapter, stages, err := in.prepare(name, rec)
	if err != nil {
		return nil, err
	}

	g, err := DependencyGraph(stages)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Root:    req.Root,
		Adapter: adapter,
		Out:     io.Discard,
		Logger:  in.logger(),
		Outcome: &Outcome{Name: req.Name, Root: req.Root, Variant: req.Variant, Adapter: adapter},
	}

	plan := &PlanResult{Name: req.Name, Root: req.Root, Variant: req.Variant}
	for _, stage := range stages {
		deps, err := Dependencies(g, stage.Name)
		if err != nil {
			return nil, err
		}
		step := PlanStep{Name: stage.Name, Label: stage.Label, DependsOn: deps, Action: stage.Action}
		if stage.Exec {
			before := len(rec.Commands())
			if err := stage.Run(ctx, env); err != nil {
				return nil, fmt.Errorf("planning %s: %w", stage.Name, err)
			}
			step.Commands = rec.Commands()[before:]
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

// WritePlan renders plan as text.
func WritePlan(w io.Writer, plan *PlanResult) {
	fmt.Fprintf(w, "Would create a new Hardhat project in %s (%s).\n\n", plan.Root, plan.Variant)
	for i, step := range plan.Steps {
		fmt.Fprintf(w, "%2d. %s\n", i+1, step.Label)
		for _, c := range step.Commands {
			fmt.Fprintf(w, "      $ %s\n", ux.Styles.Command.Render(c.String()))
		}
		if step.Action != "" {
			fmt.Fprintf(w, "      %s\n", ux.Styles.Muted.Render(step.Action))
		}
	}
}
