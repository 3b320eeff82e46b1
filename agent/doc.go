// Package agent is the client half of the session layer. An Agent verifies a
// session code over HTTP, opens a live channel, joins, and then keeps a local
// roster in step with the server.
//
// The roster has two sources: pushes on the live channel and an HTTP fetch
// issued right after the join completes. Whichever arrives last wins. Chat and
// progress sends are fire-and-forget. When the channel drops the agent moves
// to Disconnected and stays there until Join is called again.
package agent
