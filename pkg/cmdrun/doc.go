/*
Package cmdrun wraps execution of host utilities behind a Runner interface.

nodemedic drives ping, systemctl and journalctl; every invocation goes
through a Runner so the remediation sequence can be exercised in tests
against a recording fake while the real binary uses Local (os/exec with a
per-command timeout).

A non-zero exit code is data, not an error: systemctl stop on an already
stopped unit, or is-active on a failed one, are expected non-zero exits
the caller inspects via Result.ExitCode. The error return is reserved for
commands that never ran (binary missing, context cancelled).
*/
package cmdrun
