// Package render turns an AGENTS.md template into a concrete file by
// applying a typed key→value substitution map in a single pass.
//
// Two placeholder spellings are supported: {{TOKEN}} markers and
// [bracketed] literals bound explicitly by the caller. Every command
// token without a bound value degrades to a "TODO: set command for X"
// line and every other token or unbound bracketed placeholder to "TBD",
// so a rendered file never carries an unresolved placeholder.
package render

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

//go:embed templates/AGENTS.md.tmpl
var defaultTemplate string

// Token names understood by the default template.
const (
	TokenProjectName        = "PROJECT_NAME"
	TokenProjectDescription = "PROJECT_DESCRIPTION"
	TokenAgentRole          = "AGENT_ROLE"
	TokenLanguage           = "LANGUAGE"
	TokenRuntime            = "RUNTIME"
	TokenCriticalPaths      = "CRITICAL_PATHS"
	TokenStandardsPath      = "STANDARDS_PATH"
	TokenStandardsTopics    = "STANDARDS_TOPICS"
	TokenDeviationPolicy    = "DEVIATION_POLICY"
	TokenDevCmd             = "DEV_CMD"
	TokenTestCmd            = "TEST_CMD"
	TokenLintCmd            = "LINT_CMD"
	TokenBuildCmd           = "BUILD_CMD"
	TokenTypecheckCmd       = "TYPECHECK_CMD"
	TokenPriorityOne        = "PRIORITY_ONE"
	TokenPriorityTwo        = "PRIORITY_TWO"
	TokenPriorityThree      = "PRIORITY_THREE"
)

var (
	tokenRe   = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)
	bracketRe = regexp.MustCompile(`\[[^\]\n]+\]`)
)

// Values maps token names to their replacement text. Bracketed literal
// placeholders are bound separately via Bind.
type Values struct {
	tokens   map[string]string
	literals map[string]string
}

// NewValues returns an empty substitution map.
func NewValues() *Values {
	return &Values{
		tokens:   make(map[string]string),
		literals: make(map[string]string),
	}
}

// Set binds a {{TOKEN}} to a value. Empty values are treated as unbound
// so the fallback rules apply.
func (v *Values) Set(token, value string) {
	if value == "" {
		return
	}
	v.tokens[token] = value
}

// Get returns the bound value for a token, "" if unbound.
func (v *Values) Get(token string) string {
	return v.tokens[token]
}

// Bind binds a literal [bracketed] placeholder to a value. The
// placeholder must include its brackets.
func (v *Values) Bind(placeholder, value string) {
	v.literals[placeholder] = value
}

// Default returns the embedded AGENTS.md template.
func Default() string {
	return defaultTemplate
}

// Load reads a template from path.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}

// Render applies vals to tmpl. Unbound command tokens become TODO
// lines, other unbound known tokens and any bracketed placeholder left
// without a binding become "TBD", and any token that is still
// unresolved afterwards is an error.
func Render(tmpl string, vals *Values) (string, error) {
	out := tmpl

	// Literal bracketed placeholders first: longest match wins so a
	// placeholder embedded in another is not clobbered.
	literals := make([]string, 0, len(vals.literals))
	for p := range vals.literals {
		literals = append(literals, p)
	}
	sort.Slice(literals, func(i, j int) bool { return len(literals[i]) > len(literals[j]) })
	for _, p := range literals {
		out = strings.ReplaceAll(out, p, vals.literals[p])
	}

	var unresolved []string
	out = tokenRe.ReplaceAllStringFunc(out, func(m string) string {
		token := tokenRe.FindStringSubmatch(m)[1]
		if val, ok := vals.tokens[token]; ok {
			return val
		}
		if fallback, ok := fallbackFor(token); ok {
			return fallback
		}
		unresolved = append(unresolved, token)
		return m
	})

	if len(unresolved) > 0 {
		return "", fmt.Errorf("unresolved template tokens: %s", strings.Join(unresolved, ", "))
	}
	return defaultBrackets(out), nil
}

// defaultBrackets replaces bracketed placeholders left unbound after the
// substitution passes with "TBD". Markdown links and task-list
// checkboxes are not placeholders and are left alone.
func defaultBrackets(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range bracketRe.FindAllStringIndex(text, -1) {
		if loc[1] < len(text) && text[loc[1]] == '(' {
			continue
		}
		inner := strings.TrimSpace(text[loc[0]+1 : loc[1]-1])
		if inner == "" || inner == "x" || inner == "X" {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString("TBD")
		last = loc[1]
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// fallbackFor returns the default value for an unbound known token.
// Unknown tokens have no fallback and fail the render.
func fallbackFor(token string) (string, bool) {
	if name, ok := strings.CutSuffix(token, "_CMD"); ok {
		return "TODO: set command for " + strings.ToLower(name), true
	}
	switch token {
	case TokenProjectName, TokenProjectDescription, TokenAgentRole,
		TokenLanguage, TokenRuntime, TokenCriticalPaths,
		TokenStandardsPath, TokenStandardsTopics,
		TokenPriorityOne, TokenPriorityTwo, TokenPriorityThree:
		return "TBD", true
	case TokenDeviationPolicy:
		return DefaultDeviationPolicy, true
	}
	return "", false
}

// DefaultDeviationPolicy is the policy sentence used when none is
// configured. The validator requires some deviation policy statement.
const DefaultDeviationPolicy = "If you must deviate from these standards, " +
	"document the deviation and its rationale in the pull request description."

// Topics renders topic entries as a markdown list of guide links,
// relative to the standards path.
func Topics(standardsPath string, topics []Topic) string {
	if len(topics) == 0 {
		return "- Start with the standards `README.md` for an index of guides."
	}
	var b strings.Builder
	for i, t := range topics {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- [%s](%s)", t.Title, joinPath(standardsPath, t.Path))
	}
	return b.String()
}

// Topic is one standards guide entry: a display title plus a path
// relative to the standards root.
type Topic struct {
	Title string
	Path  string
}

func joinPath(base, rel string) string {
	base = strings.TrimRight(base, "/")
	rel = strings.TrimLeft(rel, "/")
	if base == "" {
		return rel
	}
	return base + "/" + rel
}
