package directory

import "errors"

// User is the externally visible profile. Role is one of auth.Role*.
type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	Department    string   `json:"department"`
	Position      string   `json:"position"`
	ManagerID     string   `json:"managerId,omitempty"`
	TeamMemberIDs []string `json:"teamMemberIds,omitempty"`
}

// Record carries the credential fields the API never serializes.
type Record struct {
	User
	PasswordHash string
	MFAEnabled   bool
	MFASecretEnc []byte
}

var ErrNotFound = errors.New("user not found")
