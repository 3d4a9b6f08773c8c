// Command marktips finds the skeleton tips of a body in DVID and places to-do
// items at them. Every invocation prints one JSON record on stdout and exits
// non-zero when that record reports a failure.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
