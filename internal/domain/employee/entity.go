package employee

import "time"

type Employee struct {
	ID           string
	UserID       *string
	EmployeeCode string
	FullName     string
	Email        string
	Department   *string
	Position     *string
	HireDate     time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelongsToUser reports whether the employee record is linked to the given user account.
func (e Employee) BelongsToUser(userID string) bool {
	return e.UserID != nil && *e.UserID == userID
}
