// Package main implements the entry point for the AntiFlow API server,
// which turns a topic into a narrated, illustrated content kit.
package main

import "os"

func main() {
	if err := newRootCmd(defaultCollaborators).Execute(); err != nil {
		os.Exit(1)
	}
}
