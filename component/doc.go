// Package component defines the lifecycle contract shared by the server's
// long-running parts and the registry that starts and stops them in order.
package component
