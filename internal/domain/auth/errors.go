package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrEmployeeClaimMissing  = errors.New("token has no employee")
	ErrManagerAccessRequired = errors.New("manager access required")
)
