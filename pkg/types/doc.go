/*
Package types defines the shared data structures for nodemedic.

A remediation run produces a RunRecord: one StepResult per executed step,
the overall outcome, and timing. Records are persisted by pkg/store and
summarized by pkg/metrics; the step name constants keep the three packages
agreeing on labels and keys.
*/
package types
