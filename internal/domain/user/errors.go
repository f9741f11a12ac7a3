package user

import "errors"

var (
	ErrRoleRequired     = errors.New("Role claim is missing or unknown")
	ErrPermissionDenied = errors.New("Permission denied")
)
