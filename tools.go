//go:build tools
// +build tools

// Package tools pins the development tools used to lint, test and release
// forall so that `go install` picks the versions recorded in go.mod.
package tools

import (
	// Lint
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"

	// Import formatting
	_ "golang.org/x/tools/cmd/goimports"

	// Coverage for unit and e2e runs
	_ "golang.org/x/tools/cmd/cover"

	// Release builds; sets main.version through ldflags
	_ "github.com/goreleaser/goreleaser"
)
