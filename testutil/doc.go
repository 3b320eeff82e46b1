// Package testutil holds test helpers shared by the session packages.
//
// T(t).Setup starts a TestComponent and stops it on cleanup; Reset, Snapshot
// and Restore isolate cases that share one component. Eventually, Receive and
// NoReceive wait on asynchronous delivery without fixed sleeps.
package testutil
