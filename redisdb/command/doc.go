// Package command maps a closed set of Redis commands onto single go-redis
// client calls and dispatches exactly one of them per request.
//
// A dispatch opens a fresh single-connection client, runs the command,
// closes the client and returns one outcome. There are no retries: the
// first error wins and is returned wrapped, so errors.Is still matches
// the original store error.
package command
