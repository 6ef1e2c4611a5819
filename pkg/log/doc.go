/*
Package log provides structured logging for nodemedic using zerolog.

The package wraps zerolog behind a small API: Init configures the global
logger (level, JSON or console format, output writer), the package-level
helpers cover simple messages, and the With* constructors derive child
loggers carrying a component, step, service, or run identifier so every
line from a remediation run can be correlated.

Console output is the default, matching the interactive nature of the
tool; pass JSONOutput for machine-readable logs:

	log.Init(log.Config{Level: log.InfoLevel})

	logger := log.WithStep("unit-reconcile")
	logger.Info().Str("unit", path).Msg("execstart path differs, patching")

There is deliberately no Fatal helper: nodemedic propagates errors up to
the command layer and exits through a single path in main.
*/
package log
