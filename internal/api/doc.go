// Package api adapts HTTP requests to the blog services. Handlers decode and
// validate request bodies, read the caller's claims placed in the context by
// the auth middleware, call a service and render either the result or the
// error's kind as a status code with a safe message.
package api
