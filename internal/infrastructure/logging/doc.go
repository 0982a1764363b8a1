// Package logging provides structured logging using uber/zap.
//
// Two modes are supported: production (JSON output for machine parsing) and
// development (colored console output for human readability). Both binaries
// share this package; the client keeps a Nop logger by default so log lines
// never corrupt the raw terminal byte stream.
package logging
