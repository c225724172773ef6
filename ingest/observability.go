package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Severity classifies an ingestion failure for observers and alerting
// thresholds.
type Severity uint8

const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "severity(?)"
	}
}

// severityFor classifies an ingestion error. Unrecoverable infrastructure
// conditions (a missing or unreadable file somewhere in the error chain) are
// Critical; schema and parse problems are Error.
func severityFor(err error) Severity {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return SeverityCritical
	}
	return SeverityError
}

// Context describes one ingestion attempt.
type Context struct {
	Path   string
	Format Format
}

// Stats summarizes a successful ingestion.
type Stats struct {
	Rows int
}

// Observer receives ingestion outcomes. Hooks are fire-and-forget
// notifications, never control flow: observer failures must not abort
// ingestion.
type Observer interface {
	// OnSuccess is called when ingestion succeeds.
	OnSuccess(Context, Stats)
	// OnFailure is called when ingestion fails.
	OnFailure(Context, Severity, error)
	// OnAlert is called, after OnFailure, when the failure severity meets
	// the configured alert threshold.
	OnAlert(Context, Severity, error)
}

// CompositeObserver fans callbacks out to a list of observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver builds a fan-out observer. Nil entries are skipped.
func NewCompositeObserver(observers ...Observer) *CompositeObserver {
	return &CompositeObserver{observers: observers}
}

func (c *CompositeObserver) OnSuccess(ctx Context, stats Stats) {
	for _, o := range c.observers {
		if o != nil {
			o.OnSuccess(ctx, stats)
		}
	}
}

func (c *CompositeObserver) OnFailure(ctx Context, sev Severity, err error) {
	for _, o := range c.observers {
		if o != nil {
			o.OnFailure(ctx, sev, err)
		}
	}
}

func (c *CompositeObserver) OnAlert(ctx Context, sev Severity, err error) {
	for _, o := range c.observers {
		if o != nil {
			o.OnAlert(ctx, sev, err)
		}
	}
}

// LogObserver logs ingestion outcomes through logrus.
type LogObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver builds a LogObserver. A nil logger falls back to the logrus
// standard logger.
func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) fields(ctx Context) logrus.FieldLogger {
	return o.log.WithFields(logrus.Fields{"path": ctx.Path, "format": ctx.Format.String()})
}

func (o *LogObserver) OnSuccess(ctx Context, stats Stats) {
	o.fields(ctx).WithField("rows", stats.Rows).Info("ingest ok")
}

func (o *LogObserver) OnFailure(ctx Context, sev Severity, err error) {
	entry := o.fields(ctx).WithFields(logrus.Fields{"severity": sev.String(), "error": err})
	if sev >= SeverityError {
		entry.Error("ingest failed")
		return
	}
	entry.Warn("ingest failed")
}

func (o *LogObserver) OnAlert(ctx Context, sev Severity, err error) {
	o.fields(ctx).WithFields(logrus.Fields{"severity": sev.String(), "error": err}).Error("ingest alert")
}

// FileObserver appends ingestion outcomes to a local log file. Writes are
// best-effort: failures to open or write the file are ignored.
type FileObserver struct {
	path string
	mu   sync.Mutex
}

// NewFileObserver builds an observer appending to path.
func NewFileObserver(path string) *FileObserver {
	return &FileObserver{path: path}
}

func (o *FileObserver) appendLine(line string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = fmt.Fprintln(f, line)
}

func (o *FileObserver) OnSuccess(ctx Context, stats Stats) {
	o.appendLine(fmt.Sprintf("%d ok format=%s path=%s rows=%d",
		time.Now().Unix(), ctx.Format, ctx.Path, stats.Rows))
}

func (o *FileObserver) OnFailure(ctx Context, sev Severity, err error) {
	o.appendLine(fmt.Sprintf("%d fail severity=%s format=%s path=%s err=%v",
		time.Now().Unix(), sev, ctx.Format, ctx.Path, err))
}

func (o *FileObserver) OnAlert(ctx Context, sev Severity, err error) {
	o.appendLine(fmt.Sprintf("%d ALERT severity=%s format=%s path=%s err=%v",
		time.Now().Unix(), sev, ctx.Format, ctx.Path, err))
}
