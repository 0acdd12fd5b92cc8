package services

import (
	"sort"
	"sync"

	"table-gateway/internal/models"
)

// PolicyRegistry holds the declared required-field set per collection.
type PolicyRegistry struct {
	mu       sync.RWMutex
	required map[string][]string
}

// NewPolicyRegistry creates an empty registry
func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{required: make(map[string][]string)}
}

// Set replaces the policy of a collection; an empty set removes it.
func (p *PolicyRegistry) Set(collection string, fields []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(fields) == 0 {
		delete(p.required, collection)
		return
	}

	p.required[collection] = append([]string(nil), fields...)
}

// Required returns the declared required fields of a collection.
func (p *PolicyRegistry) Required(collection string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.required[collection]...)
}

// Missing lists the required fields absent from record, sorted.
func (p *PolicyRegistry) Missing(collection string, record models.Record) []string {
	var missing []string
	for _, field := range p.Required(collection) {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

// All returns a copy of every declared policy.
func (p *PolicyRegistry) All() map[string][]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string][]string, len(p.required))
	for k, v := range p.required {
		out[k] = append([]string(nil), v...)
	}
	return out
}
