package access

import (
	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
)

// Entity — тип ресурса в таблице политик доступа.
type Entity string

const (
	EntityFoodItem   Entity = "food_item"
	EntityDietPlan   Entity = "diet_plan"
	EntityCalorieLog Entity = "calorie_log"
	EntityReport     Entity = "report"
)

// Operation — операция над ресурсом.
type Operation string

const (
	OpRead   Operation = "read"
	OpList   Operation = "list"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Scope определяет, кто может выполнить операцию.
type Scope int

const (
	// ScopeOwner requires record.owner_id == caller id.
	ScopeOwner Scope = iota
	// ScopePublic allows any authenticated caller.
	ScopePublic
)

// policy is the single declarative access table. Every service consults it
// through Authorize instead of carrying its own ad hoc checks.
//
// Food items form a shared catalog: anyone may read them, and list endpoints
// expose both the full catalog and an owner-filtered view. Diet plans and
// calorie logs are private to their owner for every operation.
var policy = map[Entity]map[Operation]Scope{
	EntityFoodItem: {
		OpRead:   ScopePublic,
		OpList:   ScopePublic,
		OpUpdate: ScopeOwner,
		OpDelete: ScopeOwner,
	},
	EntityDietPlan: {
		OpRead:   ScopeOwner,
		OpList:   ScopeOwner,
		OpUpdate: ScopeOwner,
		OpDelete: ScopeOwner,
	},
	EntityCalorieLog: {
		OpRead:   ScopeOwner,
		OpList:   ScopeOwner,
		OpUpdate: ScopeOwner,
		OpDelete: ScopeOwner,
	},
	EntityReport: {
		OpRead:   ScopeOwner,
		OpList:   ScopeOwner,
		OpUpdate: ScopeOwner,
		OpDelete: ScopeOwner,
	},
}

// ScopeFor returns the configured scope; unknown pairs default to owner-only.
func ScopeFor(entity Entity, op Operation) Scope {
	ops, ok := policy[entity]
	if !ok {
		return ScopeOwner
	}
	scope, ok := ops[op]
	if !ok {
		return ScopeOwner
	}
	return scope
}

// Authorize decides whether userID may perform op on a record owned by ownerID.
// A nil ownerID marks an ownerless catalog record, mutable by any
// authenticated user. Ownership failures return apperr.Forbidden.
func Authorize(entity Entity, op Operation, userID uuid.UUID, ownerID *uuid.UUID) error {
	if ScopeFor(entity, op) == ScopePublic {
		return nil
	}
	if ownerID == nil {
		return nil
	}
	if *ownerID != userID {
		return apperr.Forbidden("")
	}
	return nil
}
