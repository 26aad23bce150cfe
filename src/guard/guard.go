// Package guard implements the version-control gate that runs at the end
// of the release pipeline: dirty-tree auto-commit, branch allowlist, and
// the required release tool check. It can veto the release but never
// touches the repository beyond the single documented commit.
package guard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/kestrelcove/shipway/src/pipeline"
)

// RepoState is a read-only snapshot of the repository, taken once per
// guard check.
type RepoState struct {
	Branch string
	Dirty  bool
}

// Guard gates the release pipeline on repository state.
type Guard struct {
	RootDir       string
	Branches      []string // allowed release branches, exact match
	AutoCommit    bool
	CommitMessage string

	// ReleaseTool is probed as a required tool; absence is fatal, unlike
	// the optional test harness tools.
	Probe       pipeline.ToolProbe
	ReleaseTool pipeline.Tool
}

// State snapshots the current branch and worktree cleanliness.
func (g *Guard) State() (RepoState, error) {
	repo, err := git.PlainOpen(g.RootDir)
	if err != nil {
		return RepoState{}, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return RepoState{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return RepoState{}, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return RepoState{}, fmt.Errorf("reading worktree status: %w", err)
	}

	// Detached HEAD yields "HEAD" here, which the allowlist rejects.
	return RepoState{
		Branch: head.Name().Short(),
		Dirty:  !status.IsClean(),
	}, nil
}

// Check runs the full gate: auto-commit a dirty tree (or fail when
// autocommit is disabled), enforce the branch allowlist, and verify the
// release tool is installed. Any error vetoes the release.
func (g *Guard) Check(ctx context.Context) error {
	state, err := g.State()
	if err != nil {
		return err
	}

	if state.Dirty {
		if !g.AutoCommit {
			return fmt.Errorf("working tree is dirty and guard.autocommit is disabled")
		}
		if err := g.commit(); err != nil {
			return fmt.Errorf("auto-commit: %w", err)
		}
	}

	if !BranchAllowed(state.Branch, g.Branches) {
		return fmt.Errorf("releases run from %s only, current branch is %q",
			strings.Join(g.Branches, " or "), state.Branch)
	}

	if g.Probe != nil && g.ReleaseTool != "" && !g.Probe.Available(ctx, g.ReleaseTool) {
		return fmt.Errorf("required release tool %s not installed", g.ReleaseTool)
	}

	return nil
}

// BranchAllowed reports whether branch is in the allowlist. Matching is
// exact and case-sensitive: "Main" and "main-release" do not pass for
// "main".
func BranchAllowed(branch string, allowed []string) bool {
	for _, a := range allowed {
		if branch == a {
			return true
		}
	}
	return false
}

// commit stages everything and commits once with the configured message.
func (g *Guard) commit() error {
	repo, err := git.PlainOpen(g.RootDir)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}

	msg := g.CommitMessage
	if msg == "" {
		msg = "chore: apply automated formatting"
	}

	// Explicit signature: user-level git config may be absent in CI.
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "shipway",
			Email: "shipway@localhost",
			When:  time.Now(),
		},
	})
	return err
}
