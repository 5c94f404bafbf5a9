// Package diag defines the diagnostic model shared by the pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable records of findings produced while
//     lowering a syntax tree into IR.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Notes – optional extra context lines.
//
// # Emitting diagnostics
//
// Phases report through a Reporter. ReportError records an error and returns
// the *Failure the phase hands back to its caller, so a handler can write
//
//	return nil, diag.ReportError(r, diag.GenUnknownSymbol, msg)
//
// Failures are never reported twice: code receiving one only propagates it.
// Warnings go through ReportWarning and never alter control flow.
//
// A Bag is append-only and keeps insertion order. One Bag belongs to one pass;
// call Reset or allocate a new Bag between independent compilations.
//
// # Consumers
//
//   - internal/diagfmt renders diagnostics as text or JSON.
//   - internal/driver and internal/buildpipeline carry bags to the CLI and
//     persist them in the disk cache.
package diag
