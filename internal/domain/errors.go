package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user id already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidUserID      = errors.New("user id must be 5-20 letters or digits")
	ErrInvalidName        = errors.New("name must be 2-10 characters")
	ErrInvalidPassword    = errors.New("password must be 8-20 characters with a letter, digit and special character")
)

// Room and match errors
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrRoomNotJoinable  = errors.New("room is not joinable")
	ErrAlreadyInRoom    = errors.New("user is already in room")
	ErrActiveRoomExists = errors.New("user already has an active room")
	ErrNotInRoom        = errors.New("user is not in room")
	ErrNotHost          = errors.New("only the host can perform this action")
	ErrMatchNotRunning  = errors.New("match is not running")
	ErrInvalidScore     = errors.New("score must be a non-negative integer")
)
