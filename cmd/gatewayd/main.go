// Command gatewayd runs the configuration loader's admin plane: it
// loads handler/proxy/directory/server/host/route rows from a Store,
// interns them in a Registry, starts a Scheduler task per active
// Handler, and serves the operational HTTP surface described in
// internal/admin.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
