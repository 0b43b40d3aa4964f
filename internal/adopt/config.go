package adopt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abp-cli/abp/internal/render"
)

// Config keys recognized in the KEY=VALUE config file.
const (
	KeyProjectName        = "PROJECT_NAME"
	KeyProjectDescription = "PROJECT_DESCRIPTION"
	KeyAgentRole          = "AGENT_ROLE"
	KeyStandardsTopics    = "STANDARDS_TOPICS"
	KeyDeviationPolicy    = "DEVIATION_POLICY"
	KeyPriorityOne        = "PRIORITY_ONE"
	KeyPriorityTwo        = "PRIORITY_TWO"
	KeyPriorityThree      = "PRIORITY_THREE"
)

// commandKeys are the per-command override keys, mapped to their
// template tokens.
var commandKeys = map[string]string{
	"DEV_CMD":       render.TokenDevCmd,
	"TEST_CMD":      render.TokenTestCmd,
	"LINT_CMD":      render.TokenLintCmd,
	"BUILD_CMD":     render.TokenBuildCmd,
	"TYPECHECK_CMD": render.TokenTypecheckCmd,
}

// Config holds values read from a KEY=VALUE config file.
type Config struct {
	values map[string]string
}

// ParseConfigFile reads a newline-delimited KEY=VALUE file.
func ParseConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	cfg, err := parseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func parseConfig(r io.Reader) (*Config, error) {
	cfg := &Config{values: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE, got %q", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = unquote(value)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNum)
		}
		cfg.values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Get returns the value for key, "" if unset.
func (c *Config) Get(key string) string {
	if c == nil {
		return ""
	}
	return c.values[key]
}

// Topics parses the STANDARDS_TOPICS value: semicolon-delimited
// "Title|relative/guide/path" entries.
func (c *Config) Topics() []render.Topic {
	return ParseTopics(c.Get(KeyStandardsTopics))
}

// ParseTopics parses a semicolon-delimited list of Title|path entries.
// Entries without a path are kept as bare titles.
func ParseTopics(s string) []render.Topic {
	var topics []render.Topic
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		title, path, _ := strings.Cut(entry, "|")
		topics = append(topics, render.Topic{
			Title: strings.TrimSpace(title),
			Path:  strings.TrimSpace(path),
		})
	}
	return topics
}

// ManifestFile is the optional manifest a standards repository may
// carry at its root to describe itself and its guides.
const ManifestFile = "standards.yaml"

// Manifest describes a standards repository.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Topics      []struct {
		Title string `yaml:"title"`
		Path  string `yaml:"path"`
	} `yaml:"topics"`
}

// LoadManifest reads standards.yaml from the standards root. A missing
// manifest is not an error; (nil, nil) is returned.
func LoadManifest(standardsRoot string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(standardsRoot, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", ManifestFile, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// RenderTopics converts manifest topics to render topics.
func (m *Manifest) RenderTopics() []render.Topic {
	if m == nil {
		return nil
	}
	topics := make([]render.Topic, 0, len(m.Topics))
	for _, t := range m.Topics {
		topics = append(topics, render.Topic{Title: t.Title, Path: t.Path})
	}
	return topics
}
