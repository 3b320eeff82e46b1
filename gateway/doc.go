// Package gateway owns the live client channels of the session service.
//
// Each accepted Channel starts unbound. A join event binds it to a
// (session, participant) pair, adds the participant to the registry, and
// broadcasts roster-changed to the session followed by roster-snapshot to the
// joiner. chat-message and progress-update events are relayed to every other
// channel of the session. When a channel goes away its participant is
// released and the session is told.
//
// Router does the fan-out. Two transports are provided: a WebSocket endpoint
// (ServeWS) and a read-only Server-Sent Events watch stream (ServeWatch).
package gateway
