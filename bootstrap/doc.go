// Package bootstrap runs a binary's lifecycle: validated config, logger
// initialization, ordered component start, configure callbacks, a ready check,
// a startup summary, and graceful shutdown on SIGINT/SIGTERM.
package bootstrap
