// Package version exposes build information for sessiond and sessionctl.
package version
