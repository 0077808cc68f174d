package log

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// InstallZerologWarnSink routes library warnings raised through
// errors.Warn into the given zerolog logger. Warning types implementing
// zerolog.LogObjectMarshaler are emitted with their structured fields.
func InstallZerologWarnSink(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	})
}

// DefaultZerologWarnSink installs a timestamped stderr warning sink.
func DefaultZerologWarnSink() {
	InstallZerologWarnSink(zerolog.New(os.Stderr).With().Timestamp().Logger())
}
