// Package diag defines the diagnostic model shared by the output stage.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     style substitution and bundle optimization passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt; the concurrent, build-wide collection
// lives in internal/buildctx.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form
//     (OPTxxxx for the optimizer, STYxxxx for styles, IOxxxx for file system).
//   - Message: human oriented text; keep it short and actionable.
//   - Mode / Component: the style mode and component tag the finding belongs to.
//   - Origin: optional file/line/column reported by the optimizer.
//   - Notes: optional secondary messages.
//
// Bag is not goroutine-safe; producers running concurrently either own a Bag
// each or append through buildctx.Diagnostics.
package diag
