package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Race errors
	ErrRaceNotFound      = errors.New("race not found")
	ErrPlayerNotFound    = errors.New("player not found in race")
	ErrInvalidScreen     = errors.New("invalid screen number")
	ErrScreenTaken       = errors.New("screen already taken by another player")
	ErrNotCreator        = errors.New("only the creator can start the race")
	ErrInvalidTransition = errors.New("action not valid for current race status")
	ErrNotEnoughPlayers  = errors.New("at least two players are required")
)
