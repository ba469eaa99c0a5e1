package util

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientLives = errors.New("insufficient lives")
	ErrInvalidReference  = errors.New("lesson does not belong to course")
	ErrGenerationFailure = errors.New("question generation failed")
	ErrLivesConflict     = errors.New("lives were modified concurrently")

	ErrUserNotFound       = fmt.Errorf("用户%w", ErrNotFound)
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
)
