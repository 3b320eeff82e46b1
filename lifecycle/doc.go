// Package lifecycle is the request/response side of the session layer: it
// creates session codes and answers verify and roster queries over HTTP.
//
// The service is stateless; every answer is read from the session registry.
// Routes:
//
//	POST /api/create-session          -> 201 {"sessionId"}
//	GET  /api/verify-session/:id      -> 200 {"sessionId","participantsCount"} | 404
//	GET  /api/session/:id/participants -> 200 {"count","participants"} | 404
package lifecycle
