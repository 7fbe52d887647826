// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Field keys shared across services
const (
	FieldRunID     = "run_id"
	FieldConceptID = "concept_id"
	FieldPersonaID = "persona_id"
	FieldPhase     = "phase"
	FieldComponent = "component"
)

// Setup configures the global logger. Unknown levels fall back to info.
func Setup(level string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
		DisableColors:   true,
	})
	logrus.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.AddHook(&componentHook{name: "conceptlab"})
}

// For returns an entry tagged with a component name
func For(component string) *logrus.Entry {
	return logrus.WithField(FieldComponent, component)
}

// componentHook stamps a default component on entries that lack one
type componentHook struct {
	name string
}

func (h *componentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *componentHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data[FieldComponent]; !ok {
		entry.Data[FieldComponent] = h.name
	}
	return nil
}
