package service

import "errors"

var (
	// ErrNoWords is returned when a quiz is started on a topic without words
	ErrNoWords = errors.New("topic has no words")
	// ErrNotOwner is returned when someone else's topic is modified
	ErrNotOwner = errors.New("topic belongs to another user")
)
