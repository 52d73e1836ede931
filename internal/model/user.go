package model

import "time"

// Role names stored in the users.role column.  Every user carries exactly
// one role; the permission strings attached to each role are derived in
// Authorities below.
const (
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  The password hash is never serialized into API responses; the
// json tag on PasswordHash drops it from any marshalled output.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name supplied at registration.
//  LastName     – family name supplied at registration.
//  Email        – unique email address (login identity).
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (CUSTOMER, MANAGER or ADMIN).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`        // users.id
	FirstName    string    `json:"firstname"` // users.first_name
	LastName     string    `json:"lastname"`  // users.last_name
	Email        string    `json:"email"`     // users.email
	PasswordHash string    `json:"-"`         // users.password_hash (never exposed)
	Role         string    `json:"role"`      // users.role
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// rolePermissions maps each role to its fixed permission strings.  The
// role name itself is appended by Authorities so that route policies can
// match on either form.
var rolePermissions = map[string][]string{
	RoleAdmin:    {"admin:read", "admin:write"},
	RoleManager:  {"management:read", "management:write"},
	RoleCustomer: {"customer:read"},
}

// ValidRole reports whether the given string is a known role name.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// Authorities returns the authority set for a role: its permission
// strings plus the role name itself.  Unknown roles yield an empty set.
func Authorities(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(perms)+1)
	out = append(out, perms...)
	out = append(out, role)
	return out
}
