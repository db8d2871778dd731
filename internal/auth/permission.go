package auth

import (
	"net/http"

	"github.com/iliyamo/media-review-api/internal/model"
)

// Permission checks run at two checkpoints. Resource-level policies decide
// whether a caller may attempt a kind of operation at all and run before
// any row is fetched, so an unauthorized caller learns nothing about what
// exists. Object-level policies run once the target row is resolved and
// compare the caller against the recorded owner. Every policy is a small
// independent predicate over the same decision context; endpoints combine
// them with AllOf (logical AND).

// Caller identifies the principal behind a request. The zero value is an
// anonymous caller.
type Caller struct {
	ID            uint64
	Role          model.Role
	Superuser     bool
	Authenticated bool
}

// CallerFromClaims builds a Caller from verified token claims. An
// unparseable role degrades to plain user rather than failing the request;
// the token signature already proved it was issued by us.
func CallerFromClaims(c *Claims) Caller {
	role, _ := model.ParseRole(c.Role)
	return Caller{ID: c.UserID, Role: role, Superuser: c.Superuser, Authenticated: true}
}

// Request is the decision context shared by all policies.
type Request struct {
	Caller Caller
	Method string
}

// Safe reports whether the request uses a read-only method. Safe requests
// never mutate state and are universally allowed at the resource level by
// the *OrReadOnly policies.
func (r Request) Safe() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Policy is a resource-level predicate.
type Policy func(Request) bool

// ObjectPolicy is an object-level predicate; ownerID is the ID of the
// resolved resource's recorded author.
type ObjectPolicy func(r Request, ownerID uint64) bool

// Authenticated allows only callers holding a currently valid token.
func Authenticated(r Request) bool { return r.Caller.Authenticated }

// AuthenticatedOrReadOnly allows read-only methods to anyone and mutating
// methods to authenticated callers.
func AuthenticatedOrReadOnly(r Request) bool { return r.Safe() || r.Caller.Authenticated }

// RoleAtLeast allows callers whose role meets min, treating superuser as
// admin-equivalent. Anonymous callers are always denied.
func RoleAtLeast(min model.Role) Policy {
	return func(r Request) bool {
		if !r.Caller.Authenticated {
			return false
		}
		return r.Caller.Superuser || r.Caller.Role.AtLeast(min)
	}
}

// AdminOrReadOnly allows read-only methods to anyone; mutation needs admin.
func AdminOrReadOnly(r Request) bool { return r.Safe() || RoleAtLeast(model.RoleAdmin)(r) }

// AllOf combines policies with logical AND; an empty chain allows.
func AllOf(policies ...Policy) Policy {
	return func(r Request) bool {
		for _, p := range policies {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// OwnerOrReadOnly permits read-only access to anyone and mutation to the
// recorded owner only.
func OwnerOrReadOnly(r Request, ownerID uint64) bool {
	if r.Safe() {
		return true
	}
	return r.Caller.Authenticated && r.Caller.ID == ownerID
}

// OwnerOrModeratorDelete is the review/comment rule: reads for anyone, any
// mutation for the owner, and deletion (only deletion) for moderators and
// up. A moderator may remove another user's content but never edit it;
// that asymmetry is deliberate.
func OwnerOrModeratorDelete(r Request, ownerID uint64) bool {
	if r.Safe() {
		return true
	}
	if !r.Caller.Authenticated {
		return false
	}
	if r.Caller.ID == ownerID {
		return true
	}
	if r.Method == http.MethodDelete {
		return r.Caller.Superuser || r.Caller.Role.AtLeast(model.RoleModerator)
	}
	return false
}
