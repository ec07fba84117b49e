// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Account is a user account: the identity a person logs in with.
type Account struct {
	ID           int    // Assigned by the store on creation; immutable afterwards.
	Username     string // Display identity, also the token subject.
	PasswordHash string // Output of the password hasher. Never the plaintext.
	Email        string // Login lookup key.
	Role         Role   // Free-form authorization tag embedded in issued tokens.
}

// Replace overwrites every mutable field. The ID is left untouched.
func (a *Account) Replace(username, passwordHash, email string, role Role) {
	a.Username = username
	a.PasswordHash = passwordHash
	a.Email = email
	a.Role = role
}
