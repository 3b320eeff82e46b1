// Package util holds text helpers for untrusted participant input.
package util
