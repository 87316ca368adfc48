// Package auth resolves the acting principal into a visibility scope applied
// by every repository and service operation.
package auth

import (
	"strings"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/models"
)

// Principal identifies the caller of an operation. It is always passed
// explicitly; nothing in the core reads identity from ambient state.
type Principal struct {
	UserID uint
	Role   string
	Email  string
}

// Scope is the visibility derived from a principal. A global scope sees and
// mutates everything; an owned scope is restricted to content whose ownership
// email matches.
type Scope struct {
	Global     bool
	OwnerEmail string
}

// GlobalScope returns the unrestricted admin scope.
func GlobalScope() Scope {
	return Scope{Global: true}
}

// OwnedBy returns a scope restricted to content owned by the given email.
func OwnedBy(email string) Scope {
	return Scope{OwnerEmail: normalizeEmail(email)}
}

// ResolveScope maps a principal role onto a scope. Unknown roles are rejected
// rather than defaulted, so a bad token can never widen visibility.
func ResolveScope(p Principal) (Scope, error) {
	role := strings.ToLower(strings.TrimSpace(p.Role))
	switch role {
	case models.RoleAdmin:
		return GlobalScope(), nil
	case models.RoleCourseManager, "instructor",
		models.RoleJobInstructor, models.RoleHackathonInstructor,
		models.RoleStudent, models.RoleFaculty:
		email := normalizeEmail(p.Email)
		if email == "" {
			return Scope{}, apperr.Unauthorizedf("role %q requires an email", role)
		}
		return OwnedBy(email), nil
	default:
		return Scope{}, apperr.Unauthorizedf("unknown role %q", p.Role)
	}
}

// Covers reports whether the scope may act on content owned by ownerEmail.
func (s Scope) Covers(ownerEmail string) bool {
	if s.Global {
		return true
	}
	return s.OwnerEmail != "" && s.OwnerEmail == normalizeEmail(ownerEmail)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
