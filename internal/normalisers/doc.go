// Package normalisers turns source-specific values into plain text.
// The attribute normaliser renders typed record properties.
package normalisers
