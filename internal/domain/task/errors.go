package task

import "errors"

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("task belongs to another employee")
)
