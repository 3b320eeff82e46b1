// Package session holds the in-memory registry of collaborative sessions.
//
// A session is identified by a short, case-insensitive code and keeps an
// insertion-ordered roster of participants. Sessions live until the process
// exits. Each session has its own mutex; the registry-wide lock only guards
// the id map.
package session
