// Package domain defines the core business entities for eptalign.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One text of the corpus with its derived plain text
//   - GroupKey / GroupPair: Alignable cohorts and the pairs enumerated between them
//   - AlignmentLink: One source/target sentence-group correspondence
//   - DocumentPairResult: The outcome of aligning two documents
//   - Run / ReportRow: Ledger and report records
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
