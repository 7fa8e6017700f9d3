package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Redactor rewrites well-known path prefixes in log values so that logs do
// not carry account names. The user's home directory becomes "~".
type Redactor struct {
	prefixes []redactPrefix
}

type redactPrefix struct {
	prefix      string
	replacement string
}

// NewRedactor creates a Redactor for the given prefix → replacement pairs.
// Longer prefixes are tried first.
func NewRedactor(replacements map[string]string) *Redactor {
	r := &Redactor{}
	for prefix, replacement := range replacements {
		prefix = filepath.Clean(prefix)
		if prefix == "." || prefix == string(filepath.Separator) {
			continue
		}
		r.prefixes = append(r.prefixes, redactPrefix{prefix: prefix, replacement: replacement})
	}
	sort.Slice(r.prefixes, func(i, j int) bool {
		return len(r.prefixes[i].prefix) > len(r.prefixes[j].prefix)
	})
	return r
}

// NewHomeRedactor creates a Redactor that replaces the current user's home
// directory with "~". If the home directory is unknown the redactor is a
// no-op.
func NewHomeRedactor() *Redactor {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return &Redactor{}
	}
	return NewRedactor(map[string]string{home: "~"})
}

// RedactString replaces every occurrence of a known prefix that sits on a
// path boundary.
func (r *Redactor) RedactString(s string) string {
	for _, p := range r.prefixes {
		s = replaceOnBoundary(s, p.prefix, p.replacement)
	}
	return s
}

// replaceOnBoundary replaces prefix where it is followed by a separator or
// the end of a path-like token, so "/home/al" does not match "/home/alice".
func replaceOnBoundary(s, prefix, replacement string) string {
	var sb strings.Builder
	for {
		i := strings.Index(s, prefix)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		end := i + len(prefix)
		if end == len(s) || isBoundary(s[end]) {
			sb.WriteString(s[:i])
			sb.WriteString(replacement)
		} else {
			sb.WriteString(s[:end])
		}
		s = s[end:]
	}
}

func isBoundary(c byte) bool {
	switch c {
	case '/', '\\', ' ', '"', '\'', ':', ',', ')':
		return true
	}
	return false
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook. String values and
// errors are redacted; everything else passes through.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if len(r.prefixes) == 0 {
		return a
	}
	switch a.Value.Kind() {
	case slog.KindString:
		a.Value = slog.StringValue(r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok && err != nil {
			a.Value = slog.StringValue(r.RedactString(err.Error()))
		}
	}
	return a
}
