package services

import (
	"reflect"
	"testing"

	"table-gateway/internal/models"
)

func TestPolicyRegistry(t *testing.T) {
	p := NewPolicyRegistry()

	if missing := p.Missing("users", models.Record{}); len(missing) != 0 {
		t.Errorf("no policy should require nothing, got %v", missing)
	}

	p.Set("users", []string{"name", "email"})

	got := p.Missing("users", models.Record{"email": "a@b.com"})
	if !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("Missing = %v, want [name]", got)
	}

	got = p.Missing("users", models.Record{})
	if !reflect.DeepEqual(got, []string{"email", "name"}) {
		t.Errorf("Missing = %v, want [email name]", got)
	}

	// Present with a null value still counts as supplied.
	if missing := p.Missing("users", models.Record{"name": nil, "email": nil}); len(missing) != 0 {
		t.Errorf("Missing = %v, want none", missing)
	}

	p.Set("users", nil)
	if len(p.Required("users")) != 0 {
		t.Error("empty Set should clear the policy")
	}
	if len(p.All()) != 0 {
		t.Errorf("All = %v, want empty", p.All())
	}
}
