package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"users", "_private", "Order_Items2", "a"}
	for _, name := range valid {
		if err := ValidateIdentifier("collection", name); err != nil {
			t.Errorf("%q rejected: %v", name, err)
		}
	}

	invalidNames := []string{"", "1users", "users;", "users drop", "users`", "a-b", "tbl\"", strings.Repeat("a", 65)}
	for _, name := range invalidNames {
		if err := ValidateIdentifier("collection", name); err == nil {
			t.Errorf("%q accepted", name)
		}
	}
}

func TestIdentifierGuardAllowList(t *testing.T) {
	open := NewIdentifierGuard(nil)
	if err := open.Collection("anything"); err != nil {
		t.Errorf("open guard rejected: %v", err)
	}

	g := NewIdentifierGuard([]string{"users", " orders ", ""})
	if err := g.Collection("users"); err != nil {
		t.Errorf("users rejected: %v", err)
	}
	if err := g.Collection("orders"); err != nil {
		t.Errorf("orders rejected: %v", err)
	}

	var vErr *ValidationError
	if err := g.Collection("secrets"); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError for disallowed collection, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	cases := []struct {
		raw       string
		allowZero bool
		want      int64
		ok        bool
	}{
		{"1", false, 1, true},
		{"42", true, 42, true},
		{"0", false, 0, false},
		{"0", true, 0, true},
		{"-3", true, 0, false},
		{"abc", false, 0, false},
		{"1.5", false, 0, false},
		{"", false, 0, false},
	}

	for _, tc := range cases {
		got, err := ParseID(tc.raw, tc.allowZero)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseID(%q, %v) = %d, %v", tc.raw, tc.allowZero, got, err)
			}
			continue
		}

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("ParseID(%q, %v): expected ValidationError, got %v", tc.raw, tc.allowZero, err)
		}
	}
}
