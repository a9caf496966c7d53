package registry

import (
	"testing"

	"github.com/weavetpl/weave/value"
)

func TestLookupExactArity(t *testing.T) {
	r := New()
	r.Register("at", 2, Entry{Op: OpAt})
	e, ok := r.Lookup("at", 2)
	if !ok || e.Op != OpAt {
		t.Fatalf("expected exact-arity lookup to succeed, got %+v ok=%v", e, ok)
	}
	if _, ok := r.Lookup("at", 3); ok {
		t.Fatalf("expected no entry for wrong arity without variadic fallback")
	}
}

func TestLookupVariadicFallback(t *testing.T) {
	r := New()
	r.Register("join", -1, Entry{Op: OpJoin})
	e, ok := r.Lookup("join", 5)
	if !ok || e.Op != OpJoin {
		t.Fatalf("expected variadic fallback to match any arity, got %+v ok=%v", e, ok)
	}
}

func TestLookupPrefersExactOverVariadic(t *testing.T) {
	r := New()
	r.Register("f", -1, Entry{Op: OpCallback, Call: func(args []value.Value) (value.Value, error) {
		return value.FromString("variadic"), nil
	}})
	r.Register("f", 1, Entry{Op: OpCallback, Call: func(args []value.Value) (value.Value, error) {
		return value.FromString("exact"), nil
	}})
	e, ok := r.Lookup("f", 1)
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	got, _ := e.Call(nil)
	if s, _ := got.AsString(); s != "exact" {
		t.Fatalf("expected exact-arity entry to win, got %q", s)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := New()
	r.Register("a", 0, Entry{Op: OpNone})
	clone := r.Clone()
	clone.Register("b", 0, Entry{Op: OpNone})
	if _, ok := r.Lookup("b", 0); ok {
		t.Fatalf("mutating the clone must not affect the original registry")
	}
	if _, ok := clone.Lookup("a", 0); !ok {
		t.Fatalf("clone should retain entries present at clone time")
	}
}

func TestNamesDeduplicatesAcrossArities(t *testing.T) {
	r := New()
	r.Register("at", 2, Entry{Op: OpAt})
	r.Register("at", -1, Entry{Op: OpAt})
	names := r.Names()
	if len(names) != 1 || names[0] != "at" {
		t.Fatalf("expected one deduplicated name, got %v", names)
	}
}
