// Command sessionctl is a terminal client for sessiond: it creates and checks
// sessions, prints rosters, watches sessions and joins them as a participant.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
