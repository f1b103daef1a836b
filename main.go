// Package main is the entry point for the capmetrics CLI tool, which scrapes
// NBA advanced-stat and salary tables and studies whether past performance
// predicts contract value.
package main

import "github.com/lcamara/capmetrics/cmd"

func main() {
	cmd.Execute()
}
