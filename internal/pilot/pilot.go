// Package pilot scaffolds the artifacts for running a standards
// adoption pilot in a project and gates pilot readiness.
package pilot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abp-cli/abp/internal/adopt"
	"github.com/abp-cli/abp/internal/fsutil"
	"github.com/abp-cli/abp/internal/validate"
)

// Dir is the pilot artifact directory, relative to the project root.
const Dir = ".agentic-best-practices/pilot"

// ManifestFile records the pilot parameters.
const ManifestFile = "pilot.yaml"

// Manifest describes one pilot run.
type Manifest struct {
	Project       string    `yaml:"project"`
	StandardsPath string    `yaml:"standards_path"`
	StartedAt     time.Time `yaml:"started_at"`
	DurationDays  int       `yaml:"duration_days"`
}

// DefaultDurationDays is how long a pilot runs unless configured.
const DefaultDurationDays = 14

var artifacts = map[string]string{
	"feedback-log.md": `# Pilot Feedback Log

Record friction, surprises and wins while working under the standards.
One dated entry per observation.

## Entries
`,
	"checklist.md": `# Pilot Checklist

- [ ] AGENTS.md adopted and validated
- [ ] Team briefed on the standards reference
- [ ] Feedback log reviewed weekly
- [ ] Deviations recorded with rationale
- [ ] Retro scheduled for the end of the pilot
`,
}

// Prepare scaffolds the pilot directory. Existing artifacts are kept
// unless force is set; the returned list names the files written.
func Prepare(projectDir, standardsPath string, force bool) ([]string, error) {
	if !fsutil.IsDir(projectDir) {
		return nil, fmt.Errorf("project directory does not exist: %s", projectDir)
	}

	pilotDir := filepath.Join(projectDir, filepath.FromSlash(Dir))
	if err := os.MkdirAll(pilotDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pilot directory: %w", err)
	}

	var written []string

	manifestPath := filepath.Join(pilotDir, ManifestFile)
	if force || !fsutil.Exists(manifestPath) {
		m := Manifest{
			Project:       filepath.Base(absOr(projectDir)),
			StandardsPath: standardsPath,
			StartedAt:     time.Now().UTC(),
			DurationDays:  DefaultDurationDays,
		}
		data, err := yaml.Marshal(&m)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", ManifestFile, err)
		}
		if err := fsutil.WriteFileAtomic(manifestPath, data, 0o644); err != nil {
			return nil, err
		}
		written = append(written, manifestPath)
	}

	for _, name := range artifactNames() {
		content := artifacts[name]
		path := filepath.Join(pilotDir, name)
		if !force && fsutil.Exists(path) {
			continue
		}
		if err := fsutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	return written, nil
}

// LoadManifest reads the pilot manifest from a project.
func LoadManifest(projectDir string) (*Manifest, error) {
	path := filepath.Join(projectDir, filepath.FromSlash(Dir), ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// Gate is one readiness condition.
type Gate struct {
	Name   string
	Ok     bool
	Detail string
}

// Readiness aggregates the pilot gates for a project.
type Readiness struct {
	Gates []Gate
}

// Ready reports whether every gate passed.
func (r *Readiness) Ready() bool {
	for _, g := range r.Gates {
		if !g.Ok {
			return false
		}
	}
	return true
}

// Check evaluates pilot readiness for a project: the instruction file
// is adopted and structurally valid, CLAUDE.md is maintained, and the
// pilot artifacts are in place.
func Check(projectDir string) *Readiness {
	r := &Readiness{}
	gate := func(name string, ok bool, detail string) {
		if ok {
			detail = ""
		}
		r.Gates = append(r.Gates, Gate{Name: name, Ok: ok, Detail: detail})
	}

	agentsPath := filepath.Join(projectDir, adopt.AgentsFile)
	gate("agents-file", fsutil.Exists(agentsPath), adopt.AgentsFile+" not found; run adopt first")

	vrep := validate.Run(validate.Input{ProjectDir: projectDir})
	gate("validation", vrep.Errors() == 0,
		fmt.Sprintf("validation reports %d error(s)", vrep.Errors()))

	gate("claude-file", fsutil.Exists(filepath.Join(projectDir, adopt.ClaudeFile)),
		adopt.ClaudeFile+" not found")

	pilotDir := filepath.Join(projectDir, filepath.FromSlash(Dir))
	gate("pilot-manifest", fsutil.Exists(filepath.Join(pilotDir, ManifestFile)),
		ManifestFile+" not found; run pilot prepare")
	for _, name := range artifactNames() {
		gate("pilot-artifact:"+name, fsutil.Exists(filepath.Join(pilotDir, name)),
			name+" not found; run pilot prepare")
	}

	return r
}

func artifactNames() []string {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func absOr(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
