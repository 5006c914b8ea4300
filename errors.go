package structlog

import (
	"errors"

	"github.com/D-Gaspa/structlog-config/internal/sink"
)

// ErrAlreadyConfigured is returned by Build when a configuration has already
// been committed. The pipeline remains exactly as the first successful
// caller left it.
var ErrAlreadyConfigured = errors.New("logging has already been configured")

// ErrNotConfigured is returned by Current before any Build has succeeded.
var ErrNotConfigured = errors.New("logging has not been configured")

// ErrSinkDisabled reports file handler construction from a disabled
// configuration; the public Build path never triggers it.
var ErrSinkDisabled = sink.ErrSinkDisabled

// ErrPathNotWritable reports a log file or directory that exists but cannot
// be written. Build fails atomically when setup hits it: nothing is
// installed and the runtime stays unconfigured, so a corrected Build can be
// retried.
var ErrPathNotWritable = sink.ErrPathNotWritable
