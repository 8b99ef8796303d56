//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// - github.com/pressly/goose/v3/cmd/goose (ad-hoc migrations against a live DB;
//   the server and seed-dictionary apply the embedded set themselves)
// - github.com/matryer/moq (test doubles are hand-written in its style)
