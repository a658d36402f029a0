// Package main is the single-binary entrypoint for PurpleSchool.
package main

import "github.com/purpleschool/purpleschool/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
