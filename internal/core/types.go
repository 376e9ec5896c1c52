package core

import "refcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Role               = domain.Role
	Language           = domain.Language
	Country            = domain.Country
	State              = domain.State
	District           = domain.District
	Image              = domain.Image
	User               = domain.User
	Change             = domain.Change
	Action             = domain.Action
	Severity           = domain.Severity
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	NotFoundError      = domain.NotFoundError
	ValidationError    = domain.ValidationError
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityLanguage = domain.EntityLanguage
	EntityCountry  = domain.EntityCountry
	EntityState    = domain.EntityState
	EntityDistrict = domain.EntityDistrict
	EntityImage    = domain.EntityImage
	EntityUser     = domain.EntityUser
	EntitySession  = domain.EntitySession
)

const (
	RoleUser    = domain.RoleUser
	RoleManager = domain.RoleManager
	RoleAdmin   = domain.RoleAdmin
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
