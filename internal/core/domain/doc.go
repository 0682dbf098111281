// Package domain defines the core business entities for notion-digest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A raw database row with typed attribute values
//   - AttributeValue: The closed set of property kinds
//   - Item: A normalised unit of work built from a Record
//   - ProcessingResult: What happened to one Item during a run
//   - RunReport: The aggregated result of one run
//   - Settings: Runtime configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
