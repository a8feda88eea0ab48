package observability

import (
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ObserveDB times one logical store operation and classifies its failure.
// Safe on a nil receiver.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}
	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyDBErr(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return "constraint_violation"
		case sqlite3.ErrBusy:
			return "busy"
		case sqlite3.ErrLocked:
			return "locked"
		case sqlite3.ErrInterrupt:
			return "query_canceled"
		default:
			return "sqlite_" + sqliteErr.Code.Error()
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
