// Package api serves the collection over HTTP.
//
// Routes live under /api/collections/movies and every response, success or
// failure, uses the same JSON envelope:
//
//	{"success": true, "data": ..., "meta": {"timestamp": "...", "total": 3}}
//	{"success": false, "data": null, "error": "Movie not found", "meta": {...}}
//
// Request bodies are validated here before they reach the collection service;
// validation failures answer 400 with every problem joined into one message.
// Absent records answer 404. Anything else answers 500 and is logged with the
// request's correlation id, which is also echoed in the X-Request-ID header.
//
// The server only sees *library.Service. Store and catalog wiring stays in the
// command that builds the service.
package api
