// Package preflight checks that the tools a generation run shells out to are
// installed and recent enough, before anything is written to disk.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/chainkit-labs/hardhat-create-app/internal/runner"
	"golang.org/x/sync/errgroup"
)

// Requirement is one tool a variant needs.
type Requirement struct {
	Tool string
	// Constraint is a semver constraint such as ">= 16.0.0". Empty means any
	// version.
	Constraint string
}

// Requirements returns the tools checked for variant.
func Requirements(variant string) ([]Requirement, error) {
	node := Requirement{Tool: "node", Constraint: ">= 16.0.0"}
	switch variant {
	case "npm":
		return []Requirement{node, {Tool: "npm"}, {Tool: "npx"}}, nil
	case "yarn":
		return []Requirement{node, {Tool: "yarn"}}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}

// Result is the outcome of checking one tool.
type Result struct {
	Tool       string
	Path       string
	Version    string
	Constraint string
	OK         bool
	Message    string
}

// Report collects the results of a check in requirement order.
type Report struct {
	Results []Result
}

// OK reports whether every tool passed.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return true
}

// Err returns an error naming every failed tool, or nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if !res.OK {
			errs = append(errs, fmt.Errorf("%s: %s", res.Tool, res.Message))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %w", errors.Join(errs...))
}

// Checker inspects tools.
type Checker struct {
	// Runner runs "<tool> --version". Its output should not be streamed.
	Runner runner.Runner
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
	// Dir is the working directory of version commands. Defaults to the
	// current directory.
	Dir string
}

// Check inspects every requirement of variant concurrently.
func (c *Checker) Check(ctx context.Context, variant string) (*Report, error) {
	reqs, err := Requirements(variant)
	if err != nil {
		return nil, err
	}
	return c.CheckAll(ctx, reqs)
}

// CheckAll inspects reqs concurrently. Tool failures are reported in the
// Report; the error is reserved for cancellation and invalid constraints.
func (c *Checker) CheckAll(ctx context.Context, reqs []Requirement) (*Report, error) {
	dir := c.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := c.inspect(ctx, dir, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Results: results}, nil
}

func (c *Checker) inspect(ctx context.Context, dir string, req Requirement) (Result, error) {
	res := Result{Tool: req.Tool, Constraint: req.Constraint}

	var constraint *semver.Constraints
	if req.Constraint != "" {
		var err error
		constraint, err = semver.NewConstraint(req.Constraint)
		if err != nil {
			return res, fmt.Errorf("invalid constraint %q for %s: %w", req.Constraint, req.Tool, err)
		}
	}

	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(req.Tool)
	if err != nil {
		res.Message = "not found in PATH"
		return res, nil
	}
	res.Path = path

	out, err := c.Runner.Run(ctx, runner.Command{Dir: dir, Name: req.Tool, Args: []string{"--version"}})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	if err != nil {
		res.Message = fmt.Sprintf("running %s --version: %v", req.Tool, err)
		return res, nil
	}

	res.Version = firstLine(out.Output)
	if constraint == nil {
		res.OK = true
		return res, nil
	}

	v, err := semver.NewVersion(strings.TrimPrefix(res.Version, "v"))
	if err != nil {
		res.Message = fmt.Sprintf("cannot parse version %q", res.Version)
		return res, nil
	}
	if !constraint.Check(v) {
		res.Message = fmt.Sprintf("version %s does not satisfy %s", v, req.Constraint)
		return res, nil
	}
	res.OK = true
	return res, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
