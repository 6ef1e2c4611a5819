/*
Package store keeps a local history of remediation runs in BoltDB.

Each run is stored as a JSON-encoded types.RunRecord in the runs bucket,
keyed by start time so a reverse cursor walk yields newest-first. The
store is strictly an audit trail: remediation never reads it to decide
anything, a write failure is logged and swallowed by the caller, and the
database is only opened when a history path is configured.
*/
package store
