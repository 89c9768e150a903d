// Package agent contains the orchestration loop at the heart of agentcore.
//
// An Executor drives one run end to end: it resolves the model provider
// named by the config, loads and trims persisted history, seeds the system
// prompt, appends the user turn, then iterates provider calls up to a bound,
// executing any tool calls the provider surfaces and feeding the results
// back into the history before the next call. The final history is persisted
// and the aggregate response assembled.
//
// Failure is data: Execute never returns an error and never panics. Runs
// that cannot proceed (unknown provider, cancellation, internal fault) come
// back as an AgentResponse with Success=false and a human-readable Error.
package agent
