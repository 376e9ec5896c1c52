package core

import "refcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewUniqueEmailRule())
	engine.Register(NewValidRoleRule())
	engine.Register(NewReferenceIntegrityRule())
	return engine
}
