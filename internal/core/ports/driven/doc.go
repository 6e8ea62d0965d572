// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KnowledgeSource: Looks a search term up in one source (local corpus, PubMed, WHO)
//   - LLMService: Language model used to synthesise the final answer
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-editable prompts. Without it, built-in prompts are used.
//   - HistoryStore: Conversation persistence. Without it, sessions are not kept.
//   - RunObserver: Receives orchestration runs for metrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
