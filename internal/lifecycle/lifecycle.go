// Package lifecycle runs manifest-declared install/publish scripts
// under a trusted-publisher gate.
package lifecycle

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/hashicorp/go-multierror"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// ScriptName is one of the recognized, auto-executed lifecycle hooks.
type ScriptName string

const (
	PreInstall     ScriptName = "preinstall"
	PostInstall    ScriptName = "postinstall"
	PreUninstall   ScriptName = "preuninstall"
	PostUninstall  ScriptName = "postuninstall"
	PrepublishOnly ScriptName = "prepublishOnly"
)

// AutoRunScripts are the hook names executed automatically around an
// install/uninstall/publish. Other manifest script keys (e.g. "test")
// are informational only.
var AutoRunScripts = []ScriptName{PreInstall, PostInstall, PreUninstall, PostUninstall, PrepublishOnly}

// DefaultTrustedPackages ships a conservative built-in allowlist of
// packages whose install scripts commonly perform legitimate native
// builds or binary downloads. Callers may extend or replace this list.
var DefaultTrustedPackages = []string{
	"node-sass", "esbuild", "sharp", "puppeteer", "husky",
	"core-js", "fsevents", "cypress", "playwright",
}

// TrustModel decides whether a package's scripts may run.
type TrustModel struct {
	trusted map[string]bool
}

// NewTrustModel builds a TrustModel from the root manifest's declared
// trustedDependencies plus DefaultTrustedPackages.
func NewTrustModel(trustedDependencies []string) *TrustModel {
	t := &TrustModel{trusted: make(map[string]bool)}
	for _, p := range DefaultTrustedPackages {
		t.trusted[p] = true
	}
	for _, p := range trustedDependencies {
		t.trusted[p] = true
	}
	return t
}

// IsTrusted reports whether pkg's scripts may run.
func (t *TrustModel) IsTrusted(pkg string) bool {
	return t.trusted[pkg]
}

// Result is the outcome of one script execution attempt.
type Result struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Skipped  bool
	Reason   string
}

// Runner executes lifecycle scripts for packages, gated by a TrustModel
// and an ignoreScripts short-circuit.
type Runner struct {
	Trust         *TrustModel
	IgnoreScripts bool
}

// NewRunner constructs a Runner.
func NewRunner(trust *TrustModel, ignoreScripts bool) *Runner {
	return &Runner{Trust: trust, IgnoreScripts: ignoreScripts}
}

// Run executes command (the script body) for package pkg in dir, with
// extraEnv appended to the caller's environment. If IgnoreScripts is
// set, the run short-circuits to success without spawning a process. If
// pkg is not trusted, the run is skipped with a diagnostic reason and is
// not itself an error.
func (r *Runner) Run(pkg, dir, command string, extraEnv []string) (Result, error) {
	if r.IgnoreScripts {
		return Result{Success: true, ExitCode: 0, Skipped: true, Reason: "ignore_scripts is set"}, nil
	}
	if !r.Trust.IsTrusted(pkg) {
		return Result{Skipped: true, Reason: "package " + pkg + " is not in trustedDependencies or the default-trusted set"}, nil
	}
	return runShell(dir, command, extraEnv)
}

// RunAll runs command for every (pkg, dir) pair, serialized per package
// in call order, and aggregates any hard spawn failures via
// hashicorp/go-multierror without stopping at the first one. Individual
// non-zero exits are reported in each Result, not treated as errors.
func (r *Runner) RunAll(jobs []Job) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	var errs *multierror.Error
	for _, job := range jobs {
		res, err := r.Run(job.Package, job.Dir, job.Command, job.ExtraEnv)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		results = append(results, res)
	}
	return results, errs.ErrorOrNil()
}

// Job is one scheduled lifecycle script invocation.
type Job struct {
	Package  string
	Dir      string
	Command  string
	ExtraEnv []string
}

func runShell(dir, command string, extraEnv []string) (Result, error) {
	cmd := shellCommand(command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return Result{Success: true, ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return Result{
			Success:  false,
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}, nil
	}
	return Result{}, pantryerr.Wrap(pantryerr.KindPermissionDenied, err, "failed to spawn lifecycle script").WithPath(dir)
}

func shellCommand(command string) *exec.Cmd {
	if os.PathSeparator == '\\' {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("sh", "-c", command)
}
