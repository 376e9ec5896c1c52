package domain

import (
	"context"
	"errors"
	"testing"
)

type staticRule struct {
	name       string
	violations []Violation
	err        error
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(context.Context, RuleView, []Change) (Result, error) {
	return Result{Violations: r.violations}, r.err
}

func TestEngineMergesResults(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "first", violations: []Violation{{Rule: "first", Severity: SeverityWarn, Message: "w"}}})
	engine.Register(staticRule{name: "second", violations: []Violation{{Rule: "second", Severity: SeverityBlock, Message: "b"}}})

	res, err := engine.Evaluate(context.Background(), nil, []Change{{Entity: EntityLanguage, Action: ActionCreate}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 {
		t.Fatalf("expected merged violations, got %d", len(res.Violations))
	}
	if !res.HasBlocking() {
		t.Fatal("blocking violation lost in merge")
	}
}

func TestEngineStopsOnRuleError(t *testing.T) {
	boom := errors.New("rule exploded")
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "broken", err: boom})
	engine.Register(staticRule{name: "after", violations: []Violation{{Rule: "after"}}})

	res, err := engine.Evaluate(context.Background(), nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected rule error, got %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatal("partial results must not leak on error")
	}
}

func TestHasBlocking(t *testing.T) {
	warnOnly := Result{Violations: []Violation{{Severity: SeverityWarn}}}
	if warnOnly.HasBlocking() {
		t.Fatal("warn severity is not blocking")
	}
	if (Result{}).HasBlocking() {
		t.Fatal("empty result is not blocking")
	}
}

func TestErrorStrings(t *testing.T) {
	nf := NotFoundError{Entity: EntityCountry, ID: "c1"}
	if nf.Error() != `country "c1" not found` {
		t.Fatalf("unexpected message: %s", nf.Error())
	}
	rve := RuleViolationError{Result: Result{Violations: []Violation{{Severity: SeverityBlock}}}}
	if rve.Error() == "" {
		t.Fatal("error message must not be empty")
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleUser} {
		if !role.Valid() {
			t.Fatalf("role %s should be valid", role)
		}
	}
	if Role("root").Valid() {
		t.Fatal("unknown role should be invalid")
	}
}
