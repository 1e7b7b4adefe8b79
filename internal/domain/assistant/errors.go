package assistant

import "errors"

var (
	ErrConfigNotFound      = errors.New("agent config not found")
	ErrConfigAlreadyExists = errors.New("agent config with this name already exists")
	ErrNoActiveConfig      = errors.New("no active agent config")
	ErrInvalidTemperature  = errors.New("temperature must be between 0 and 2")
	ErrInvalidMaxTokens    = errors.New("max_tokens must be positive")
)
