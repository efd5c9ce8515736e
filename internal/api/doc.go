// Package api exposes the training services over HTTP. Handlers decode and
// validate JSON requests, call the user, progress and workout services with
// the authenticated user's ID, and translate service errors into status
// codes and client-safe messages.
package api
