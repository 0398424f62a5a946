package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Repository exposes the two facts the reporting workflow needs about a
// working copy: its current head revision and its remote URL.
type Repository interface {
	Head(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context) (string, error)
	Dir() string
}

// ErrNoRemote indicates the working copy has no remote configured.
var ErrNoRemote = errors.New("no remote configured")

// Runner executes a git subcommand in a directory and returns trimmed
// stdout. Split out so tests can fake git.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

const gitTimeout = 10 * time.Second

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GitRepository implements Repository by shelling out to the git CLI.
type GitRepository struct {
	dir string
	run Runner
}

// NewGitRepository creates a Repository for the working copy at dir.
func NewGitRepository(dir string) *GitRepository {
	return &GitRepository{dir: dir, run: execGit}
}

// NewGitRepositoryWithRunner creates a Repository with a custom runner,
// for tests.
func NewGitRepositoryWithRunner(dir string, run Runner) *GitRepository {
	return &GitRepository{dir: dir, run: run}
}

func (r *GitRepository) Dir() string { return r.dir }

func (r *GitRepository) Head(ctx context.Context) (string, error) {
	out, err := r.run(ctx, r.dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving head of %s: %w", r.dir, err)
	}
	return out, nil
}

func (r *GitRepository) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.run(ctx, r.dir, "remote", "get-url", "origin")
	if err != nil || out == "" {
		return "", ErrNoRemote
	}
	return out, nil
}
