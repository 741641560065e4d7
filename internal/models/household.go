package models

// Household represents one tenant in the system. All obligations, cycles
// and progress rows belong to exactly one household.
type Household struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Not serialized
	CreatedAt    string `json:"created_at"`
}
