// Package version carries the build version embedded in generated files.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/psantana5/cpxanno/internal/version.Version=1.4.0"
var Version = "dev"

// Generator is the tool name written into generated file headers
const Generator = "cpxanno"
