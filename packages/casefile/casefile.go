package casefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// CaseFileSuffixes are the file name suffixes recognised as case documents.
var CaseFileSuffixes = []string{".match.yaml", ".match.yml", ".match.json"}

// Document is a parsed case document.
type Document struct {
	Name  string
	File  string
	Cases []*Case
}

// Case is a single match check.
type Case struct {
	Name       string
	Line       int
	Actual     any
	Matcher    any
	Refute     bool
	Message    string
	Skip       bool
	SkipReason string
}

// Operator returns "refute" for refuting cases and "assert" otherwise.
func (c *Case) Operator() string {
	if c.Refute {
		return "refute"
	}
	return "assert"
}

type rawDocument struct {
	Name  string    `yaml:"name"`
	Cases []rawCase `yaml:"cases"`
}

type rawCase struct {
	Name       string    `yaml:"name"`
	Actual     yaml.Node `yaml:"actual"`
	ActualFile string    `yaml:"actualFile"`
	ActualPath string    `yaml:"actualPath"`
	Match      yaml.Node `yaml:"match"`
	Refute     yaml.Node `yaml:"refute"`
	Message    string    `yaml:"message"`
	Skip       any       `yaml:"skip"`
}

// IsCaseFile reports whether path has a case document suffix.
func IsCaseFile(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range CaseFileSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// ParseFile reads and parses the document at path. actualFile references are
// resolved relative to the document's directory.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.File = path
	return doc, nil
}

// Parse parses a document. baseDir is used to resolve actualFile references.
func Parse(data []byte, baseDir string) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if len(raw.Cases) == 0 {
		return nil, errors.New("document has no cases")
	}

	doc := &Document{Name: raw.Name, Cases: make([]*Case, 0, len(raw.Cases))}
	for i := range raw.Cases {
		c, err := buildCase(&raw.Cases[i], baseDir)
		if err != nil {
			name := raw.Cases[i].Name
			if name == "" {
				name = "unnamed"
			}
			return nil, fmt.Errorf("case %d (%s): %w", i+1, name, err)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		doc.Cases = append(doc.Cases, c)
	}
	return doc, nil
}

func buildCase(raw *rawCase, baseDir string) (*Case, error) {
	c := &Case{Name: raw.Name, Message: raw.Message}

	switch skip := raw.Skip.(type) {
	case nil:
	case bool:
		c.Skip = skip
	case string:
		c.Skip = true
		c.SkipReason = skip
	default:
		return nil, fmt.Errorf("skip must be a boolean or a reason, got %T", raw.Skip)
	}

	hasMatch := present(raw.Match)
	hasRefute := present(raw.Refute)
	switch {
	case hasMatch && hasRefute:
		return nil, errors.New("case cannot have both match and refute")
	case !hasMatch && !hasRefute:
		return nil, errors.New("case needs a match or refute matcher")
	}

	node := raw.Match
	if hasRefute {
		node = raw.Refute
		c.Refute = true
	}
	c.Line = node.Line

	var decoded any
	if err := node.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid matcher: %w", err)
	}
	m, err := DecodeMatcher(decoded)
	if err != nil {
		return nil, err
	}
	c.Matcher = m

	actual, err := resolveActual(raw, baseDir)
	if err != nil {
		return nil, err
	}
	c.Actual = actual
	return c, nil
}

func present(node yaml.Node) bool {
	return node.Kind != 0
}

func resolveActual(raw *rawCase, baseDir string) (any, error) {
	if raw.ActualFile == "" {
		if raw.ActualPath != "" {
			return nil, errors.New("actualPath requires actualFile")
		}
		if !present(raw.Actual) {
			return nil, nil
		}
		var actual any
		if err := raw.Actual.Decode(&actual); err != nil {
			return nil, fmt.Errorf("invalid actual: %w", err)
		}
		return actual, nil
	}

	if present(raw.Actual) {
		return nil, errors.New("case cannot have both actual and actualFile")
	}

	path := raw.ActualFile
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	if err := validatePathWithinBase(path, baseDir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read actual file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("actual file %s is not valid JSON", raw.ActualFile)
	}

	if raw.ActualPath == "" {
		return gjson.ParseBytes(data).Value(), nil
	}
	result := gjson.GetBytes(data, raw.ActualPath)
	if !result.Exists() {
		return nil, fmt.Errorf("path %q not found in %s", raw.ActualPath, raw.ActualFile)
	}
	return result.Value(), nil
}

// validatePathWithinBase checks that the resolved path stays within the base directory
// to prevent path traversal attacks
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}

	return nil
}

// Collect expands files and directories into the case documents they contain.
func Collect(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && IsCaseFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
