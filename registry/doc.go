// Package registry houses concrete implementations of core.ToolRegistry.
// The interface itself lives in the core package to centralize domain
// contracts; keeping only implementations here lets callers depend on the
// interface and pick a backend at wiring time.
package registry
