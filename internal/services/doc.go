// Package services implements the business logic layer between the HTTP
// handlers and the data processing pipeline.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides one core service:
//
//	- DashboardService: session-scoped delivery datasets. Each session holds
//	  uploaded file batches and display thresholds; every read recomputes
//	  the merged dataset, aggregate tables, spike alerts and summary from
//	  scratch. The only cached artifact is per-file normalization output,
//	  keyed by content hash.
//
// # Error Handling
//
// Services return domain-specific errors that handlers can transform:
//
//	- Validation errors for invalid input
//	- Not found errors for missing sessions
//	- Schema errors surfaced per uploaded file, never aborting the batch
package services
