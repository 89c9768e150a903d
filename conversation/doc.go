// Package conversation houses concrete implementations of
// core.ConversationStore. The interface lives in the core package to
// centralize domain contracts; only implementations belong here.
//
// Add durable backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code; the wiring layer decides which implementation
// to instantiate.
package conversation
