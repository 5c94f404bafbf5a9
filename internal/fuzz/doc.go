// Package fuzztests houses Go fuzz harnesses for the lowering pipeline
// (.hast bytes -> decoder -> IR emitter). They guard against panics and
// against modules that come back structurally broken.
package fuzztests
