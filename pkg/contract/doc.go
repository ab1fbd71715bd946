// Package contract normalizes raw schema metadata into the UI Contract
// consumed by the code generator: list columns, form sections, child-table
// fragments, effective permissions, workflow actions and the realtime topic
// for one entity.
//
// Contracts are rebuilt from live metadata on every call and never cached;
// downstream consumers rely on each build reflecting the current schema.
package contract
