package config

import (
	"fmt"
	"path"
)

// ErrEmptyPattern reports an attempt to register a rule with an empty glob.
var ErrEmptyPattern = fmt.Errorf("pattern cannot be empty")

// Rule pairs a glob-style pattern with the level applied to matching loggers.
type Rule struct {
	Pattern string
	Level   Level
}

// Matches reports whether the logger name matches the rule's glob. Matching
// uses shell-glob semantics: '*' matches any run of characters and '?'
// matches a single character. Logger names never contain '/', so path
// globbing and shell globbing agree here.
func (r Rule) Matches(name string) bool {
	ok, err := path.Match(r.Pattern, name)
	return err == nil && ok
}

// PatternTable is an ordered set of level rules. Rules are checked in the
// order they were added and the first match governs; callers control
// precedence purely through registration order, not pattern specificity.
// Register a specific override before the general pattern it refines.
//
// The zero value is an empty table. With returns a new table rather than
// mutating the receiver, so tables can be shared and forked freely.
type PatternTable struct {
	rules []Rule
}

// With returns a new table with the rule appended at the end, giving it
// lower priority than every existing rule.
func (t PatternTable) With(pattern string, level Level) (PatternTable, error) {
	if pattern == "" {
		return PatternTable{}, ErrEmptyPattern
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return PatternTable{}, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	if !level.Valid() {
		return PatternTable{}, fmt.Errorf("pattern %q: %w: %d", pattern, ErrInvalidLevel, int(level))
	}
	rules := make([]Rule, len(t.rules)+1)
	copy(rules, t.rules)
	rules[len(t.rules)] = Rule{Pattern: pattern, Level: level}
	return PatternTable{rules: rules}, nil
}

// Resolve returns the level of the first rule matching the logger name. The
// second result is false when no rule matches.
func (t PatternTable) Resolve(name string) (Level, bool) {
	for _, rule := range t.rules {
		if rule.Matches(name) {
			return rule.Level, true
		}
	}
	return 0, false
}

// Len returns the number of registered rules.
func (t PatternTable) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the rules in priority order.
func (t PatternTable) Rules() []Rule {
	if len(t.rules) == 0 {
		return nil
	}
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}
