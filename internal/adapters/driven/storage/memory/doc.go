// Package memory provides in-memory implementations of the driven storage
// ports. They back tests and the --memory flag of the CLI.
package memory
