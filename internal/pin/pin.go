// Package pin snapshots a standards repository at a resolved commit
// into a project-local directory, so a project can reference immutable
// standards instead of a live shared checkout.
//
// Uses go-git, so no git binary is required on the host.
package pin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/abp-cli/abp/internal/fsutil"
)

// MetadataFile is the metadata filename written inside each snapshot.
const MetadataFile = ".abp-pin.json"

// DefaultRoot is the default snapshot root, relative to the project dir.
const DefaultRoot = ".agentic-best-practices/pinned"

var (
	// ErrNotRepository indicates the standards path is not a git repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrRefNotFound indicates the requested ref does not resolve.
	ErrRefNotFound = errors.New("ref does not resolve")
)

// Metadata records how a snapshot was produced. Written once per
// snapshot and immutable thereafter.
type Metadata struct {
	Ref      string    `json:"ref"`
	Commit   string    `json:"commit"`
	Source   string    `json:"source"`
	Remote   string    `json:"remote,omitempty"`
	PinnedAt time.Time `json:"pinned_at"`
}

// Result describes the outcome of a Snapshot call.
type Result struct {
	Dir     string // absolute snapshot directory
	Meta    Metadata
	Skipped bool // true when an up-to-date snapshot already existed
}

// Snapshot archives sourceRepo at ref into root/<ref>-<shortsha>/.
// If that directory already exists and its recorded commit matches the
// resolved SHA the call is an idempotent no-op.
func Snapshot(sourceRepo, ref, root string) (*Result, error) {
	repo, err := gogit.PlainOpen(sourceRepo)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, sourceRepo)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrRefNotFound, ref, sourceRepo)
	}

	sha := hash.String()
	dir := filepath.Join(root, SnapshotName(ref, sha))

	if existing, err := LoadMetadata(dir); err == nil && existing.Commit == sha {
		return &Result{Dir: dir, Meta: *existing, Skipped: true}, nil
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", sha, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree for %s: %w", sha, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := archiveTree(tree, dir); err != nil {
		return nil, fmt.Errorf("archive tree: %w", err)
	}

	meta := Metadata{
		Ref:      ref,
		Commit:   sha,
		Source:   sourceRepo,
		Remote:   originURL(repo),
		PinnedAt: time.Now().UTC(),
	}
	if err := writeMetadata(dir, meta); err != nil {
		return nil, err
	}

	return &Result{Dir: dir, Meta: meta}, nil
}

// SnapshotName returns the directory name for a ref and its resolved
// SHA: <sanitized ref>-<10 char sha>.
func SnapshotName(ref, sha string) string {
	short := sha
	if len(short) > 10 {
		short = short[:10]
	}
	return sanitizeRef(ref) + "-" + short
}

// LoadMetadata reads the pin metadata from a snapshot directory.
func LoadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MetadataFile, err)
	}
	return &meta, nil
}

func writeMetadata(dir string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, MetadataFile), append(data, '\n'), 0o644)
}

func archiveTree(tree *object.Tree, dir string) error {
	return tree.Files().ForEach(func(f *object.File) error {
		dst := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		reader, err := f.Reader()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			return err
		}

		mode := os.FileMode(0o644)
		if f.Mode == filemode.Executable {
			mode = 0o755
		}
		return os.WriteFile(dst, data, mode)
	})
}

func originURL(repo *gogit.Repository) string {
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// sanitizeRef makes a ref safe for use as a directory name component.
func sanitizeRef(ref string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, ref)
}

// IsSemverOrSHA reports whether ref looks like a semantic version tag
// or a commit SHA. The validator warns on pins to anything else
// (branch names drift; versions and SHAs do not).
func IsSemverOrSHA(ref string) bool {
	r := strings.TrimPrefix(ref, "v")
	if isSemver(r) {
		return true
	}
	return isHex(ref) && len(ref) >= 7 && len(ref) <= 40
}

func isSemver(s string) bool {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		// Tolerate pre-release suffix on the patch component.
		if i := strings.IndexAny(p, "-+"); i >= 0 {
			p = p[:i]
		}
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}
