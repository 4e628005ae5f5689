package kernel

import (
	"errors"
	"fmt"

	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when an Actor was not created via NewActor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Role identifies the capacity in which an actor performs an operation.
// Every state-changing operation receives the acting party explicitly,
// so authorization decisions are visible at the call site rather than
// pulled from ambient request context.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleCustomer is the party that placed the order.
	RoleCustomer

	// RoleShopper is the gig worker fulfilling the order.
	RoleShopper

	// RoleAdmin is platform staff with review privileges.
	RoleAdmin

	// RoleSystem marks actions performed by the platform itself,
	// such as background re-extraction of degraded receipts.
	RoleSystem
)

// getRoleStrings returns a map of Role values to their string representations.
func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleShopper:  "shopper",
		RoleAdmin:    "admin",
		RoleSystem:   "system",
	}
}

// getValidRoleStrings returns a map of only valid Role values.
func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleCustomer: "customer",
		RoleShopper:  "shopper",
		RoleAdmin:    "admin",
		RoleSystem:   "system",
	}
}

// RoleFromString parses a role name as it appears in JWT claims and audit rows.
func RoleFromString(s string) (Role, error) {
	for role, name := range getValidRoleStrings() {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks if the Role value is valid.
// Valid roles are: customer, shopper, admin, system.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the lowercase name of the role.
// Returns "unknown" for invalid role values.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Actor is a value object pairing the identity of an acting party with the
// role it acts in. It is passed explicitly into every domain operation that
// changes state, which makes role gating checkable in the domain model.
//
// Example:
//
//	shopper := kernel.NewActor(shopperID, kernel.RoleShopper)
//	if err := order.StartShopping(shopper); err != nil {
//	    // Forbidden or InvalidTransition
//	}
type Actor struct {
	id   UUID
	role Role

	guard guard.ConstructorGuard
}

// NewActor creates an Actor with the given identity and role.
// Validation is deferred to Validate so zero-value detection and
// field errors surface together at the call site.
func NewActor(id UUID, role Role) (Actor, error) {
	actor := Actor{
		id:    id,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}

	return actor, nil
}

// ID returns the identity of the acting party.
func (a Actor) ID() UUID {
	return a.id
}

// Role returns the role the party acts in.
func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor acts in the given role.
func (a Actor) Is(role Role) bool {
	return a.role == role
}

// Validate ensures the Actor was created via NewActor and carries a valid
// identity and role.
func (a Actor) Validate() error {
	if err := a.guard.Validate(ErrActorIsNotConstructed); err != nil {
		return err
	}
	return errors.Join(a.id.Validate(), a.role.Validate())
}
