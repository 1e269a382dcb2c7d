// Command cadence runs pools of workers that invoke a callback at a fixed cadence.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
