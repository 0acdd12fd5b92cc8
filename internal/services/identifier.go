package services

import (
	"regexp"
	"strconv"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidateIdentifier rejects anything that is not a plain SQL identifier.
// Names are interpolated into statements, so this is the only barrier.
func ValidateIdentifier(kind, name string) error {
	if !identifierPattern.MatchString(name) {
		return &ValidationError{
			Fields:  []string{name},
			Message: "invalid " + kind + " name: " + strconv.Quote(name),
		}
	}
	return nil
}

// validateFragment guards raw SQL tokens (column types, defaults) against
// statement chaining and comments.
func validateFragment(kind, column, value string) error {
	if strings.ContainsAny(value, ";") || strings.Contains(value, "--") || strings.Contains(value, "/*") {
		return &ValidationError{
			Fields:  []string{column},
			Message: "invalid " + kind + " for column " + column,
		}
	}
	return nil
}

// IdentifierGuard validates collection names against the identifier rules
// and an optional allow-list.
type IdentifierGuard struct {
	allowed map[string]struct{}
}

// NewIdentifierGuard creates a guard; an empty list allows any valid name.
func NewIdentifierGuard(allowed []string) *IdentifierGuard {
	g := &IdentifierGuard{}
	for _, name := range allowed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if g.allowed == nil {
			g.allowed = make(map[string]struct{})
		}
		g.allowed[name] = struct{}{}
	}
	return g
}

// Collection validates a collection name.
func (g *IdentifierGuard) Collection(name string) error {
	if err := ValidateIdentifier("collection", name); err != nil {
		return err
	}
	if g == nil || g.allowed == nil {
		return nil
	}
	if _, ok := g.allowed[name]; !ok {
		return &ValidationError{
			Fields:  []string{name},
			Message: "collection is not allowed: " + name,
		}
	}
	return nil
}

// ParseID parses a record identifier from the URL. Identifiers are
// positive integers; allowZero widens the range to include 0.
func ParseID(raw string, allowZero bool) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationError{Fields: []string{"id"}, Message: "Invalid id: must be an integer"}
	}

	if id < 0 || (id == 0 && !allowZero) {
		if allowZero {
			return 0, &ValidationError{Fields: []string{"id"}, Message: "Invalid id: must be >= 0"}
		}
		return 0, &ValidationError{Fields: []string{"id"}, Message: "Invalid id: must be > 0"}
	}

	return id, nil
}
