// Package file provides the TOML-backed configuration store.
//
// Configuration lives in ~/.pfgrants/config.toml unless another directory
// is given. Nested tables are exposed as dot-notation keys, so
//
//	[bigquery]
//	project = "my-project"
//
// is read with the key "bigquery.project".
package file
