// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The alignment run is split into small steps that are tested on their own:
// DocumentLoader, EnumeratePairs, AlignmentAdapter, Aggregator and Exporter.
// Pipeline chains them; ReportService reads back past runs.
//
// Services are pure Go with no CGO. They reach adapters only through
// driven ports.
package services
