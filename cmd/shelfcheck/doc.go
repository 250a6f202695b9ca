// Package main hosts the shelfcheck CLI entrypoint and command graph.
//
// The Cobra-based command tree drives verification runs against the
// configured sources, inspects and prunes stored outcomes, manages the
// search result cache, and scaffolds configuration. Command handlers stay
// thin: catalog loading, source orchestration, and persistence live in the
// internal packages and are only wired together here.
package main
