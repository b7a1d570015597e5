package logging

import (
	"strings"
)

// BadgerAdapter adapts the global logger to badger.Logger.
type BadgerAdapter struct{}

// BadgerLogger returns a logger suitable for badger.Options.Logger.
func BadgerLogger() BadgerAdapter {
	return BadgerAdapter{}
}

func (BadgerAdapter) Errorf(format string, v ...interface{}) {
	Error().Str("component", "badger").Msgf(strings.TrimSpace(format), v...)
}

func (BadgerAdapter) Warningf(format string, v ...interface{}) {
	Warn().Str("component", "badger").Msgf(strings.TrimSpace(format), v...)
}

func (BadgerAdapter) Infof(format string, v ...interface{}) {
	Debug().Str("component", "badger").Msgf(strings.TrimSpace(format), v...)
}

func (BadgerAdapter) Debugf(format string, v ...interface{}) {
	Debug().Str("component", "badger").Msgf(strings.TrimSpace(format), v...)
}
