// Package policy decides whether a resolved identity may perform an
// operation. Every protected operation is declared once in the rule table
// below; handlers never hand-roll their own role or ownership checks.
package policy

import (
	"strings"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// Mode is a single access predicate.
type Mode uint8

const (
	// Authenticated is satisfied by any complete identity.
	Authenticated Mode = iota + 1
	Self
	Admin
	GroupMember
)

// Rule is satisfied when any of its modes is.
type Rule []Mode

// Operation names a protected endpoint.
type Operation string

const (
	ListUsers  Operation = "ListUsers"
	GetUser    Operation = "GetUser"
	DeleteUser Operation = "DeleteUser"

	CreateCategory   Operation = "CreateCategory"
	UpdateCategory   Operation = "UpdateCategory"
	DeleteCategories Operation = "DeleteCategories"
	ListCategories   Operation = "ListCategories"

	CreateTransaction                  Operation = "CreateTransaction"
	ListAllTransactions                Operation = "ListAllTransactions"
	ListUserTransactions               Operation = "ListUserTransactions"
	ListUserTransactionsAdmin          Operation = "ListUserTransactionsAdmin"
	ListUserCategoryTransactions       Operation = "ListUserCategoryTransactions"
	ListUserCategoryTransactionsAdmin  Operation = "ListUserCategoryTransactionsAdmin"
	ListGroupTransactions              Operation = "ListGroupTransactions"
	ListGroupTransactionsAdmin         Operation = "ListGroupTransactionsAdmin"
	ListGroupCategoryTransactions      Operation = "ListGroupCategoryTransactions"
	ListGroupCategoryTransactionsAdmin Operation = "ListGroupCategoryTransactionsAdmin"
	DeleteTransaction                  Operation = "DeleteTransaction"
	DeleteTransactions                 Operation = "DeleteTransactions"

	CreateGroup     Operation = "CreateGroup"
	ListGroups      Operation = "ListGroups"
	GetGroup        Operation = "GetGroup"
	AddToGroup      Operation = "AddToGroup"
	InsertIntoGroup Operation = "InsertIntoGroup"
	RemoveFromGroup Operation = "RemoveFromGroup"
	PullFromGroup   Operation = "PullFromGroup"
	DeleteGroup     Operation = "DeleteGroup"
)

var rules = map[Operation]Rule{
	ListUsers:  {Admin},
	GetUser:    {Self, Admin},
	DeleteUser: {Admin},

	CreateCategory:   {Admin},
	UpdateCategory:   {Admin},
	DeleteCategories: {Admin},
	ListCategories:   {Authenticated},

	CreateTransaction:                  {Self},
	ListAllTransactions:                {Admin},
	ListUserTransactions:               {Self},
	ListUserTransactionsAdmin:          {Admin},
	ListUserCategoryTransactions:       {Self},
	ListUserCategoryTransactionsAdmin:  {Admin},
	ListGroupTransactions:              {GroupMember},
	ListGroupTransactionsAdmin:         {Admin},
	ListGroupCategoryTransactions:      {GroupMember},
	ListGroupCategoryTransactionsAdmin: {Admin},
	DeleteTransaction:                  {Self},
	DeleteTransactions:                 {Admin},

	CreateGroup:     {Authenticated},
	ListGroups:      {Admin},
	GetGroup:        {GroupMember, Admin},
	AddToGroup:      {GroupMember},
	InsertIntoGroup: {Admin},
	RemoveFromGroup: {GroupMember},
	PullFromGroup:   {Admin},
	DeleteGroup:     {Admin},
}

// RuleFor returns the rule declared for op.
func RuleFor(op Operation) (Rule, bool) {
	r, ok := rules[op]
	return r, ok
}

// Target carries the request-specific context the predicates look at.
// Group is nil when the route names no group or the group does not exist.
type Target struct {
	Username string
	Group    *domain.Group
}

func IsSelf(id domain.Identity, targetUsername string) bool {
	return targetUsername != "" && id.Username == targetUsername
}

func IsAdmin(id domain.Identity) bool {
	return id.IsAdmin()
}

func IsGroupMember(id domain.Identity, group *domain.Group) bool {
	return group.HasMember(id.Email)
}

// Causes exposed in AuthError.Cause.
const (
	CauseNotLoggedIn  = "not logged in"
	CauseNotSelf      = "not the requested user"
	CauseNotAdmin     = "admin role required"
	CauseNotMember    = "not a member of the group"
	CauseUndeclaredOp = "operation not permitted"
)

// Authorize returns nil when id satisfies the rule declared for op, and a
// *domain.AuthError otherwise.
func Authorize(op Operation, id domain.Identity, target Target) error {
	if !id.Complete() {
		return domain.Unauthorized(CauseNotLoggedIn)
	}

	rule, ok := rules[op]
	if !ok || len(rule) == 0 {
		return domain.Unauthorized(CauseUndeclaredOp)
	}

	causes := make([]string, 0, len(rule))
	for _, mode := range rule {
		allowed, cause := evaluate(mode, id, target)
		if allowed {
			return nil
		}
		causes = append(causes, cause)
	}
	return domain.Unauthorized(strings.Join(causes, " or "))
}

func evaluate(mode Mode, id domain.Identity, target Target) (bool, string) {
	switch mode {
	case Authenticated:
		return true, ""
	case Self:
		return IsSelf(id, target.Username), CauseNotSelf
	case Admin:
		return IsAdmin(id), CauseNotAdmin
	case GroupMember:
		return IsGroupMember(id, target.Group), CauseNotMember
	default:
		return false, CauseUndeclaredOp
	}
}
