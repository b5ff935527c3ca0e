package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrAccountDisabled = errors.New("account is disabled")
var ErrTooManyAttempts = errors.New("too many login attempts")
