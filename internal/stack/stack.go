// Package stack detects the technology stack of a project directory.
// Detection is a priority-ordered existence check over known manifest
// files; the first match wins and the absence of any manifest yields
// the generic fallback profile.
package stack

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Stack identifies a supported technology stack.
type Stack string

const (
	Node    Stack = "node"
	Python  Stack = "python"
	Go      Stack = "go"
	Rust    Stack = "rust"
	JVM     Stack = "jvm"
	Generic Stack = "generic"
)

// All returns every supported stack in detection priority order.
func All() []Stack {
	return []Stack{Node, Python, Go, Rust, JVM, Generic}
}

// String returns the string representation of the stack.
func (s Stack) String() string {
	return string(s)
}

// Commands holds the default developer commands for a stack.
// An empty command means the stack has no sensible default and the
// renderer will emit a TODO placeholder for it.
type Commands struct {
	Dev       string
	Test      string
	Lint      string
	Build     string
	Typecheck string
}

// Profile is the result of stack detection.
type Profile struct {
	Stack         Stack
	Language      string
	Runtime       string
	Manifest      string // manifest file that triggered detection, "" for generic
	ProjectName   string // name from the manifest, "" if unknown
	Commands      Commands
	CriticalPaths []string // source directories that exist in the project
}

// manifest files checked per stack, in priority order. First match wins.
var probes = []struct {
	stack     Stack
	manifests []string
}{
	{Node, []string{"package.json"}},
	{Python, []string{"pyproject.toml", "setup.py", "requirements.txt"}},
	{Go, []string{"go.mod"}},
	{Rust, []string{"Cargo.toml"}},
	{JVM, []string{"pom.xml", "build.gradle", "build.gradle.kts"}},
}

// Detect inspects dir and returns the stack profile. It never fails:
// unreadable manifests degrade to the stack's static defaults, and a
// directory with no recognized manifest yields the generic profile.
func Detect(dir string) Profile {
	for _, p := range probes {
		for _, m := range p.manifests {
			if _, err := os.Stat(filepath.Join(dir, m)); err != nil {
				continue
			}
			profile := profileFor(p.stack, dir, m)
			profile.CriticalPaths = criticalPaths(dir)
			return profile
		}
	}

	return Profile{
		Stack:         Generic,
		Language:      "unknown",
		Runtime:       "unknown",
		CriticalPaths: criticalPaths(dir),
	}
}

func profileFor(s Stack, dir, manifest string) Profile {
	switch s {
	case Node:
		return nodeProfile(dir, manifest)
	case Python:
		return Profile{
			Stack:    Python,
			Language: "Python",
			Runtime:  "python3",
			Manifest: manifest,
			Commands: Commands{
				Test: "pytest",
				Lint: "ruff check .",
			},
		}
	case Go:
		return Profile{
			Stack:    Go,
			Language: "Go",
			Runtime:  "go",
			Manifest: manifest,
			Commands: Commands{
				Dev:       "go run .",
				Test:      "go test ./...",
				Lint:      "go vet ./...",
				Build:     "go build ./...",
				Typecheck: "go build ./...",
			},
		}
	case Rust:
		return Profile{
			Stack:    Rust,
			Language: "Rust",
			Runtime:  "cargo",
			Manifest: manifest,
			Commands: Commands{
				Dev:       "cargo run",
				Test:      "cargo test",
				Lint:      "cargo clippy",
				Build:     "cargo build",
				Typecheck: "cargo check",
			},
		}
	case JVM:
		return jvmProfile(dir, manifest)
	default:
		return Profile{Stack: Generic, Language: "unknown", Runtime: "unknown"}
	}
}

// packageJSON is the subset of package.json that detection cares about.
type packageJSON struct {
	Name    string            `json:"name"`
	Scripts map[string]string `json:"scripts"`
	Engines struct {
		Node string `json:"node"`
	} `json:"engines"`
}

func nodeProfile(dir, manifest string) Profile {
	p := Profile{
		Stack:    Node,
		Language: "JavaScript/TypeScript",
		Runtime:  "node",
		Manifest: manifest,
	}

	data, err := os.ReadFile(filepath.Join(dir, manifest))
	if err != nil {
		return p
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return p
	}

	p.ProjectName = pkg.Name
	if pkg.Engines.Node != "" {
		p.Runtime = "node " + pkg.Engines.Node
	}

	// Only scripts that actually exist produce a command; missing
	// scripts stay empty so the renderer emits a TODO for them.
	script := func(name string) string {
		if _, ok := pkg.Scripts[name]; !ok {
			return ""
		}
		if name == "test" {
			return "npm test"
		}
		return "npm run " + name
	}
	p.Commands = Commands{
		Dev:       script("dev"),
		Test:      script("test"),
		Lint:      script("lint"),
		Build:     script("build"),
		Typecheck: script("typecheck"),
	}
	return p
}

func jvmProfile(dir, manifest string) Profile {
	p := Profile{
		Stack:    JVM,
		Language: "Java/Kotlin",
		Runtime:  "jvm",
		Manifest: manifest,
	}
	if manifest == "pom.xml" {
		p.Commands = Commands{
			Test:  "mvn test",
			Build: "mvn package",
		}
		return p
	}
	gradle := "gradle"
	if _, err := os.Stat(filepath.Join(dir, "gradlew")); err == nil {
		gradle = "./gradlew"
	}
	p.Commands = Commands{
		Test:  gradle + " test",
		Build: gradle + " build",
	}
	return p
}

// candidate source directories, in the order they are reported.
var criticalCandidates = []string{"src", "lib", "app", "cmd", "internal", "pkg", "tests", "test"}

func criticalPaths(dir string) []string {
	var paths []string
	for _, c := range criticalCandidates {
		if info, err := os.Stat(filepath.Join(dir, c)); err == nil && info.IsDir() {
			paths = append(paths, c+"/")
		}
	}
	return paths
}
