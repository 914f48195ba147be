package logging

import (
	"errors"

	"github.com/charmbracelet/log"
)

// fielder is implemented by errors that carry structured context.
type fielder interface {
	Fields() []any
}

// Reporter logs failures handed to it. Errors that expose Fields have
// their key/value pairs attached to the record.
type Reporter struct {
	Logger *log.Logger
}

// NewReporter returns a Reporter on the given logger, or the process logger
// when l is nil.
func NewReporter(l *log.Logger) *Reporter {
	if l == nil {
		l = For("report")
	}
	return &Reporter{Logger: l}
}

// Report writes err at warn level.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	kv := []any{"err", err}
	var f fielder
	if errors.As(err, &f) {
		kv = append(kv, f.Fields()...)
	}
	r.Logger.Warn("operation failed", kv...)
}
