// Package daemonctl starts and stops a background `taildrop serve` process on
// behalf of the CLI.
package daemonctl
