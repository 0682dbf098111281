// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Pipeline is the only driving service. It is built from an
// ItemSource, a Transformer and the Notifier and Committer ports.
package services
