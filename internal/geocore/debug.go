package geocore

import "sync/atomic"

var debugLoggingEnabled atomic.Bool

// EnableDebugLogging turns on the verbose slog.Debug lines that other
// packages gate on IsDebugEnabled (zonemgr's zone recompute, locomotor
// arrival, contain events). geocore itself emits no log lines.
func EnableDebugLogging(enabled bool) { debugLoggingEnabled.Store(enabled) }

// IsDebugEnabled reports the current debug-logging gate, checked before
// any expensive log call on a hot path.
func IsDebugEnabled() bool { return debugLoggingEnabled.Load() }
