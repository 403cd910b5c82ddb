package generator

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"mapgen/internal/logging"
	"mapgen/internal/mapname"
	"mapgen/internal/tasks"
)

// DefaultGenerationTimeout bounds a single generation job unless configured
// otherwise.
const DefaultGenerationTimeout = 60 * time.Second

// Submitter hands units of work to a shared, capacity-bounded runner.
type Submitter interface {
	Submit(ctx context.Context, name string, fn func(context.Context) error) (*tasks.Task, error)
}

// launchFunc starts the generator executable and blocks until it exits.
// Injectable in tests.
type launchFunc func(ctx context.Context, artifactPath, outputDir, name string, seed int64) error

// Executor runs generation jobs against a verified generator executable.
// A failed job is surfaced, not retried.
type Executor struct {
	runner    Submitter
	outputDir string
	javaBin   string
	timeout   time.Duration
	log       *logging.Logger

	launch launchFunc
}

// NewExecutor creates an executor writing generated maps to outputDir.
// A timeout <= 0 falls back to DefaultGenerationTimeout.
func NewExecutor(runner Submitter, outputDir, javaBin string, timeout time.Duration, log *logging.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if strings.TrimSpace(javaBin) == "" {
		javaBin = "java"
	}
	e := &Executor{
		runner:    runner,
		outputDir: outputDir,
		javaBin:   javaBin,
		timeout:   timeout,
		log:       log,
	}
	e.launch = e.runGenerator
	return e
}

// Run submits a generation job for (version, seed) against the executable at
// artifactPath and blocks until it finishes or ctx ends. On success it
// returns the canonical generated map name; the job is expected to have
// produced output under that name, which the executor does not re-verify.
// Exceeding the generation timeout yields ErrGenerationTimeout; an abnormal
// exit yields ErrGenerationFailed.
func (e *Executor) Run(ctx context.Context, version string, seed int64, artifactPath string) (string, error) {
	name := mapname.Encode(version, seed)

	task, err := e.runner.Submit(ctx, "generate "+name, func(runCtx context.Context) error {
		genCtx, cancel := context.WithTimeout(runCtx, e.timeout)
		defer cancel()

		e.log.Info("generating map %s", name)
		if err := e.launch(genCtx, artifactPath, e.outputDir, name, seed); err != nil {
			if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %s", ErrGenerationTimeout, name, e.timeout)
			}
			return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := task.Wait(ctx); err != nil {
		return "", err
	}
	return name, nil
}

func (e *Executor) runGenerator(ctx context.Context, artifactPath, outputDir, name string, seed int64) error {
	cmd := exec.CommandContext(ctx, e.javaBin, "-jar", artifactPath, outputDir, strconv.FormatInt(seed, 10), name)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
