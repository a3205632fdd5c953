// Package main is the entry point for the nbametrics CLI, which fetches NBA
// live-data game payloads and computes segment-scoped team and player metrics.
package main

import "github.com/pable/go-nba-metrics/cmd"

func main() {
	cmd.Execute()
}
