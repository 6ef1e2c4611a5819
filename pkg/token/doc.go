/*
Package token provisions the cluster join token for the agent.

Provisioner.EnsureToken is a no-op when the local token file already has
content; a node that only lost its service definition never opens a
network connection here. When the file is missing or empty, the token is
fetched from the control plane through a Fetcher and written 0600.

SSHFetcher is the production Fetcher: a password-authenticated SSH
session as root on the control plane reading the server's node-token
file. A failed or empty fetch is fatal to the remediation run and leaves
the local file untouched so a rerun starts from the same state.
*/
package token
