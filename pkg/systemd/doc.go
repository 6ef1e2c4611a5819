/*
Package systemd reconciles the agent's service definition and drives its
lifecycle through systemctl.

The unit-file side is pure file manipulation: ExecStartPath extracts the
launch binary from an existing definition, Reconcile compares it against
the expected agent path and either leaves the file untouched, patches the
single ExecStart line after writing a timestamped backup, or creates a
fresh unit from the template when none exists. Content problems are never
errors here: a unit file with a broken ExecStart is backed up and
rewritten like any other mismatch, and only real I/O failures propagate.

Manager covers the process side: daemon-reload after unit changes,
stop/start, the is-active query, and journal tails for diagnostics. All
of it goes through a cmdrun.Runner, so package tests and the remediation
property tests never need a live systemd.

Backups are written beside the unit file as <name>.bak.<unix-timestamp>
and are never restored automatically; rollback on a failed restart is an
operator decision.
*/
package systemd
