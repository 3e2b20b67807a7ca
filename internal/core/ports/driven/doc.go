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
//   - CorpusReader: Reads the tabular corpus (xlsx, csv)
//   - DocumentStore: Holds the loaded documents for the run
//   - SentenceAligner: Aligns the sentences of two documents
//   - LinkPipeline: Filters links before serialization
//   - AlignmentFileStore: Persists one XML file per pair name
//   - ReportWriter: Encodes the final report
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Only needed by the embedding aligner.
//   - RunLedger: Run history. Without it, past runs cannot be re-reported.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or aligner package
package driven
