//go:build !testcoverage

package main

import "os"

func main() {
	os.Exit(exitCode(run(os.Args, DefaultConfig()), os.Stderr))
}
