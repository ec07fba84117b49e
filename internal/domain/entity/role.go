// Package entity contains the core business objects of the project.
package entity

import "strings"

// Role is a free-form authorization tag such as "USER" or "ADMIN".
// The service stores and signs it verbatim; interpreting it is left to consumers.
type Role string

const (
	// RoleUser is the conventional tag for a regular account.
	RoleUser Role = "USER"
	// RoleAdmin is the conventional tag for an administrator.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsEmpty reports whether the role carries no tag at all.
func (r Role) IsEmpty() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Authority returns the role in the "ROLE_<tag>" form used by authority-based checks.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}
