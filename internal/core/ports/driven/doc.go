// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecordStore: Queries unprocessed records and their body blocks (Notion)
//   - Committer: Flags records as processed (Notion)
//   - Generator: Produces text from composed item content (Gemini, Ollama)
//   - Notifier: Publishes outcomes (Slack)
//
// # Optional Interfaces
//
//   - InstructionStore: Named system instructions. Without it, only the
//     configured instruction is available.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
