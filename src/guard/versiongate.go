package guard

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"

	"github.com/kestrelcove/shipway/src/crate"
)

// VersionGate validates the crate manifest before publishing: the version
// must be strict semver, and the matching release tag must not already
// exist. Publishing over an existing tag is not recoverable on most
// registries, so this fails before anything is pushed.
type VersionGate struct {
	RootDir string
}

// Check runs the gate.
func (v *VersionGate) Check(ctx context.Context) error {
	m, err := crate.Load(v.RootDir)
	if err != nil {
		return err
	}

	if _, err := semver.StrictNewVersion(m.Package.Version); err != nil {
		return fmt.Errorf("%s: version %q is not valid semver: %w",
			m.Package.Name, m.Package.Version, err)
	}

	tag := "v" + m.Package.Version
	exists, err := tagExists(v.RootDir, tag)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag %s already exists; bump package.version before releasing", tag)
	}

	return nil
}

func tagExists(rootDir, tag string) (bool, error) {
	repo, err := git.PlainOpen(rootDir)
	if err != nil {
		return false, fmt.Errorf("opening repository: %w", err)
	}

	tags, err := repo.Tags()
	if err != nil {
		return false, fmt.Errorf("listing tags: %w", err)
	}
	defer tags.Close()

	found := false
	for {
		ref, err := tags.Next()
		if err != nil {
			break
		}
		if ref.Name().Short() == tag {
			found = true
			break
		}
	}
	return found, nil
}
