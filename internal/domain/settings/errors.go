package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrNothingToUpdate  = errors.New("no fields to update")
	ErrNoMethodEnabled  = errors.New("at least one verification method must stay enabled")
)
