/*
Package remediator implements the repair sequence for a worker node whose
agent has fallen out of the cluster.

# Sequence

The sequence is fixed and strictly ordered; the first failure aborts the
run:

	┌──────────────── REMEDIATION RUN ────────────────┐
	│                                                   │
	│  privilege-check   must be root                   │
	│        │                                          │
	│  input-check       control-plane address set      │
	│        │                                          │
	│  reachability      ICMP fatal, API port advisory  │
	│        │                                          │
	│  binary-presence   expected agent binary exists   │
	│        │                                          │
	│  unit-reconcile    patch/create unit, reload      │
	│        │                                          │
	│  token-provision   fetch over SSH when missing    │
	│        │                                          │
	│  service-restart   stop, settle, start, settle    │
	│        │                                          │
	│  verify-active     is-active, journal on failure  │
	│        │                                          │
	│  log-summary       journal tail, closing hint     │
	│                                                   │
	└───────────────────────────────────────────────────┘

Each step produces a StepResult; the partial record is returned even on
failure so history and metrics see aborted runs.

# One-shot semantics

The remediator keeps no state between runs, never retries a failed step,
and never rolls back the unit-file patch; a second invocation redoes the
idempotent checks from the top. It also performs no terminal I/O of its
own: the address and password are resolved by the command layer before
Run, and narration goes to an injected writer, which is what lets the
behavioral tests run without root, network, or systemd.
*/
package remediator
