package user

import "github.com/alraedsec/work-management/internal/auth"

// CreateUserDTO is the admin-side user creation payload. The account is
// created active with a generated temporary password.
type CreateUserDTO struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateUserDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.FullName == "" {
		return ValidationError{Msg: "full_name is required"}
	}
	return nil
}

// NormalizedRole folds the legacy vocabularies onto the canonical role set.
func (d CreateUserDTO) NormalizedRole() auth.Role {
	return auth.ParseRole(d.Role)
}

// CreatedUser carries the one-time temporary password back to the
// administrator.
type CreatedUser struct {
	*User
	TempPassword string `json:"temp_password"`
}
