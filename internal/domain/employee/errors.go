package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own employee record")

	ErrManagerAccessRequired = errors.New("manager access required")
)
