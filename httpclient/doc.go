// Package httpclient is the client side of the lifecycle API: a small JSON
// HTTP client whose failures are *errors.AppError values.
//
// A non-2xx answer is decoded from the server's error body, so a 404 from
// verify comes back as SESSION_NOT_FOUND. A request that never gets an answer
// (refused, reset, deadline) becomes TRANSPORT_FAILURE.
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "http://localhost:8080"})
//	var out struct{ SessionID string `json:"sessionId"` }
//	err := client.DoJSON(ctx, httpclient.Request{
//	    Op:     "create",
//	    Method: http.MethodPost,
//	    Path:   "/api/create-session",
//	}, &out)
//
// DoStream opens a text/event-stream response and hands back an sse.Reader.
package httpclient
