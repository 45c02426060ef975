// Package redisdb is a k6 extension that publishes single commands to Redis.
//
// High-level behavior:
//   - A publish call opens its own connection, runs exactly one command
//     (get, keys, set, getset, setex or setnx), closes the connection and
//     settles one Promise with { result: reply }.
//   - On success the optional onCommandExecuted hook fires once with the
//     same object before the Promise resolves. On failure the hook never
//     fires and the Promise rejects with a named error.
//   - Nothing is retried, pooled or cached between calls.
package redisdb
