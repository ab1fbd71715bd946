// Package gen turns a UI Contract into deterministic JavaScript artifacts:
// list and form pages, an action module, router entries and the shared
// runtime helpers they import.
//
// Generated code the tool owns is delimited by marker comments; everything
// outside the markers belongs to the developer and is never touched by the
// sync engine. Rendering the same contract twice yields byte-identical
// output.
package gen
