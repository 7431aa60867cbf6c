// Package redact masks secret-like values in captured file content before it
// reaches the snapshot. Matching is best-effort pattern work, not a security
// guarantee: formats outside the three rule families pass through untouched.
package redact

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// keyRule redacts assignments of a single sensitive key name, e.g.
// `OPENAI_API_KEY = "sk-..."` becomes `OPENAI_API_KEY=[REDACTED]`.
type keyRule struct {
	key         string
	pattern     *regexp.Regexp
	replacement string
}

// Redactor applies the key-assignment, bearer-token and long-secret-key rules
// in that order, each over the result of the previous.
type Redactor struct {
	keyRules []keyRule
	bearer   *regexp.Regexp
	longKey  *regexp.Regexp
}

var (
	bearerPattern  = regexp.MustCompile(`Bearer [A-Za-z0-9\-_.]+`)
	longKeyPattern = regexp.MustCompile(`sk-[A-Za-z0-9\-_.]{10,}`)
)

// DefaultSensitiveKeys is the built-in key-name allowlist for the assignment
// rule. Extend it via config or a rules file, not by editing call sites.
func DefaultSensitiveKeys() []string {
	return []string{
		"OPENAI_API_KEY",
		"ANTHROPIC_API_KEY",
		"HUGGINGFACE_TOKEN",
		"AWS_SECRET_ACCESS_KEY",
		"AWS_ACCESS_KEY_ID",
		"API_KEY",
		"APIKEY",
		"SECRET_KEY",
		"ACCESS_TOKEN",
		"AUTH_TOKEN",
		"DATABASE_URL",
		"PASSWORD",
	}
}

// New compiles a Redactor for the given sensitive key names. Duplicate and
// empty names are dropped; the remaining names are matched case-insensitively
// and word-bounded, with `:` or `=` separators and an optional opening quote.
func New(sensitiveKeys []string) (*Redactor, error) {
	redactor := &Redactor{
		bearer:  bearerPattern,
		longKey: longKeyPattern,
	}
	seen := make(map[string]bool, len(sensitiveKeys))
	for _, key := range sensitiveKeys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(key) + `\b\s*[:=]\s*['"]?[^'"` + "`" + `\n]*`)
		if err != nil {
			return nil, fmt.Errorf("compiling rule for key %q: %w", key, err)
		}
		redactor.keyRules = append(redactor.keyRules, keyRule{
			key:         key,
			pattern:     pattern,
			replacement: key + "=[REDACTED]",
		})
	}
	return redactor, nil
}

// Apply returns the sanitized text and whether any redaction occurred.
// Applying it to already-sanitized text is a no-op.
func (r *Redactor) Apply(text string) (string, bool) {
	sanitized := text
	for _, rule := range r.keyRules {
		sanitized = rule.pattern.ReplaceAllString(sanitized, rule.replacement)
	}
	sanitized = r.bearer.ReplaceAllString(sanitized, "Bearer [REDACTED]")
	sanitized = r.longKey.ReplaceAllString(sanitized, "[REDACTED_LONG_KEY]")
	return sanitized, sanitized != text
}

// rulesFile is the on-disk shape of a redaction extension file.
type rulesFile struct {
	Keys []string `yaml:"keys"`
}

// LoadKeysFile reads additional sensitive key names from a YAML file of the
// form `keys: [NAME, ...]`.
func LoadKeysFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading redaction rules file %s: %w", path, err)
	}
	var parsed rulesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing redaction rules file %s: %w", path, err)
	}
	return parsed.Keys, nil
}
