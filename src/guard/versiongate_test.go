package guard

import (
	"context"
	"strings"
	"testing"
)

func TestVersionGate_PassesOnFreshVersion(t *testing.T) {
	dir, _ := initRepo(t)
	vg := &VersionGate{RootDir: dir}

	if err := vg.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestVersionGate_RejectsExistingTag(t *testing.T) {
	dir, repo := initRepo(t)

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if _, err := repo.CreateTag("v0.2.0", head.Hash(), nil); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	vg := &VersionGate{RootDir: dir}
	err = vg.Check(context.Background())
	if err == nil {
		t.Fatalf("existing tag v0.2.0 must fail the gate")
	}
	if !strings.Contains(err.Error(), "v0.2.0") {
		t.Fatalf("error does not name the tag: %v", err)
	}
}

func TestVersionGate_RejectsInvalidSemver(t *testing.T) {
	dir, repo := initRepo(t)

	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"transientdb\"\nversion = \"0.2\"\n")
	commitAll(t, repo, "break version")

	vg := &VersionGate{RootDir: dir}
	err := vg.Check(context.Background())
	if err == nil {
		t.Fatalf("version 0.2 must fail strict semver validation")
	}
	if !strings.Contains(err.Error(), "semver") {
		t.Fatalf("unexpected error: %v", err)
	}
}
