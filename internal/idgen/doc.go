// Package idgen generates the identifiers used by the scheduler: monotonic
// run-loop instance ids, so diagnostics can be correlated in creation order,
// and opaque unique strings for scheduler and message identity. It lives
// under `internal` because callers should not rely on its exact behaviour or
// API – they should treat identifiers as opaque values.
package idgen
