// Package authz implements the access decision function shared by every
// protected operation. It is pure: callers fetch the target resource first
// and pass its ownership along, then act only on an allowing decision.
package authz

import (
	"github.com/Fatimapsp/unex-escuta/internal/models"
)

// Action is an operation an actor wants to perform on a resource.
type Action string

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionDelete   Action = "delete"
	ActionModerate Action = "moderate"
)

// Reason explains an authorization decision.
type Reason string

const (
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonOwner           Reason = "OWNER"
	ReasonAdminOverride   Reason = "ADMIN_OVERRIDE"
	ReasonForbidden       Reason = "FORBIDDEN"
)

// Actor is the decoded identity performing a request. The zero value is an
// unauthenticated caller.
type Actor struct {
	ID   string
	Role models.UserRole
}

// Authenticated reports whether the actor carries a resolved identity.
func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// FromClaims builds an actor from validated token claims.
func FromClaims(claims *models.JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{ID: claims.UserID, Role: claims.Role}
}

// Resource describes the target of an action. OwnerID is the authoring user
// id when the resource supports ownership (users own themselves, feedback is
// owned by its true author regardless of the anonymous flag). AdminOnly
// marks role-gated resources where ownership never substitutes for role.
type Resource struct {
	OwnerID   string
	AdminOnly bool
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow(reason Reason) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason Reason) Decision  { return Decision{Allowed: false, Reason: reason} }

// Authorize resolves whether the actor may perform the action on the
// resource. Rules are evaluated in fixed precedence: authentication,
// role gates, ownership, admin override.
func Authorize(actor Actor, action Action, resource Resource) Decision {
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	// Moderation and admin-only resources are role-gated: ownership does
	// not substitute here.
	if action == ActionModerate || resource.AdminOnly {
		if actor.Role == models.RoleAdmin {
			return allow(ReasonAdminOverride)
		}
		return deny(ReasonForbidden)
	}

	if resource.OwnerID != "" && actor.ID == resource.OwnerID {
		return allow(ReasonOwner)
	}

	if actor.Role == models.RoleAdmin {
		return allow(ReasonAdminOverride)
	}

	return deny(ReasonForbidden)
}
