// Package core centralizes the domain contracts of agentcore: conversation
// messages, agent configuration, tool definitions and the interfaces every
// collaborator (conversation store, tool registry, model provider, tool
// executor, workflow invoker) must satisfy.
//
// Keeping the contracts here and the implementations in their own packages
// (conversation, registry, provider, executor) lets higher level code depend
// on interfaces only and prevents dependency cycles; select concrete
// implementations at wiring time.
package core
