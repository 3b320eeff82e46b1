// Package sse implements the server side of Server-Sent Events: a bounded,
// non-blocking Stream per subscriber and Serve, which drains it onto an HTTP
// response with periodic keep-alive comments.
package sse
