package domain

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyText is returned for blank input
	ErrEmptyText = errors.New("text is empty")
	// ErrCommandText is returned for input that looks like a bot command
	ErrCommandText = errors.New("text is a command")
)

// CommandMarker starts every bot command
const CommandMarker = "/"

// IsCommand reports whether text looks like a bot command
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), CommandMarker)
}

// CleanInput trims free-text input and rejects commands and blanks
func CleanInput(text string) (string, error) {
	text = strings.TrimSpace(text)
	if IsCommand(text) {
		return "", ErrCommandText
	}
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
