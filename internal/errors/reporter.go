package errors

import (
	"fmt"
	"io"
)

// Logger interface for error logging
type Logger interface {
	Error(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// Outcome tells the caller how an operation ended after reporting.
type Outcome int

const (
	// OutcomeOK means there was nothing to report.
	OutcomeOK Outcome = iota
	// OutcomeReported means a user-facing message was printed and the
	// operation ended cleanly for the process.
	OutcomeReported
	// OutcomeCancelled means the operator interrupted the operation.
	OutcomeCancelled
	// OutcomeFailed means the error is not part of the known taxonomy and
	// nothing was printed; the caller shows it and exits non-zero.
	OutcomeFailed
)

// Reporter converts errors reaching an operation boundary into one-line
// messages for the operator.
type Reporter struct {
	out    io.Writer
	logger Logger
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, logger Logger) *Reporter {
	return &Reporter{out: out, logger: logger}
}

// Report prints err and classifies it.
func (r *Reporter) Report(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}

	var storeErr *StoreError
	if As(err, &storeErr) && r.logger != nil {
		r.logger.Debug("%s", storeErr.FormatDetailed())
	}

	switch {
	case Is(err, ErrPackageNotFound), Is(err, ErrDownloadInterrupted), Is(err, ErrTransfer):
		fmt.Fprintln(r.out, storeErr.UserMessage())
		return OutcomeReported
	case IsCancellation(err):
		if r.logger != nil {
			r.logger.Debug("operation cancelled: %v", err)
		}
		return OutcomeCancelled
	}

	if r.logger != nil {
		r.logger.Debug("unclassified error: %v", err)
	}
	return OutcomeFailed
}
