package models

import "errors"

var (
	ErrNotFound                 = errors.New("not found")
	ErrValidation               = errors.New("validation error")
	ErrIllegalTransition        = errors.New("illegal state transition")
	ErrInvalidAutoAssignRequest = errors.New("invalid auto-assign request")
	// ErrSchemaOutdated возвращается при чтении документа, который не прошел миграцию
	ErrSchemaOutdated = errors.New("storage schema outdated")
)
