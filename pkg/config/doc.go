/*
Package config defines the explicit configuration for a remediation run.

Everything the run touches on the host (unit file, token file, agent
binary, service name) and every externally visible knob (probe counts,
settle delays, SSH endpoint, history database, pushgateway) lives in one
Config struct. Defaults describe a stock k3s agent; a YAML file loaded
with Load overrides them and command-line flags override the file.

The control-plane address is the one field Validate does not require:
it can still arrive interactively after config loading, and the command
layer checks it last.
*/
package config
