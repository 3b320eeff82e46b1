// Package event defines the messages exchanged between clients and the
// connection gateway and their JSON wire form:
//
//	{"type":"chat-message","payload":{"sessionId":"AB12","text":"hi",...}}
//
// Decode validates payloads and reports every failure as a
// PROTOCOL_VIOLATION error.
package event
