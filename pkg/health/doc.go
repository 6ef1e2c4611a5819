/*
Package health provides the reachability checks run before any node
mutation.

Two checkers implement the common Checker interface: PingChecker sends
ICMP echo probes through the system ping utility (via a cmdrun.Runner so
tests need no network or raw-socket privileges), and TCPChecker dials the
control-plane API port directly. The remediator treats a failed ping as
fatal and a failed TCP dial as a warning, since an unreachable host makes
every later step pointless while a down API server might be exactly what
the operator is in the middle of fixing.
*/
package health
