// Package scan runs an in-process secret scan over the tracked files of
// the repository. A published crate cannot be unpublished, so leaked
// credentials are caught before the release action ever runs.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// Finding is one detected secret.
type Finding struct {
	File string
	Line int
	Rule string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Rule)
}

// SecretScanner scans the working copies of all tracked files with the
// default gitleaks ruleset.
type SecretScanner struct {
	RootDir string

	detector *detect.Detector
}

// Check scans every tracked file and fails if any secret is found.
// Used as a required release pipeline step.
func (s *SecretScanner) Check(ctx context.Context) error {
	findings, err := s.Scan(ctx)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		return nil
	}

	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		lines = append(lines, "  "+f.String())
	}
	return fmt.Errorf("%d potential secret(s) in tracked files:\n%s",
		len(findings), strings.Join(lines, "\n"))
}

// Scan returns all findings across tracked files. Files deleted from the
// working tree but still in HEAD are ignored.
func (s *SecretScanner) Scan(ctx context.Context) ([]Finding, error) {
	if s.detector == nil {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("initializing secret detector: %w", err)
		}
		s.detector = d
	}

	files, err := trackedFiles(s.RootDir)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(s.RootDir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		for _, h := range s.detector.DetectBytes(data) {
			findings = append(findings, Finding{
				File: name,
				Line: h.StartLine + 1, // gitleaks is 0-indexed
				Rule: h.RuleID,
			})
		}
	}
	return findings, nil
}

// trackedFiles lists the paths in the HEAD tree.
func trackedFiles(rootDir string) ([]string, error) {
	repo, err := git.PlainOpen(rootDir)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var files []string
	iter := tree.Files()
	defer iter.Close()
	for {
		f, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		files = append(files, f.Name)
	}
	return files, nil
}
