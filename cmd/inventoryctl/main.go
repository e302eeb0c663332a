// Command inventoryctl loads the inventory API the way the console does and
// prints what an operator needs to check it: collection counts, stock alerts
// and which collections failed.
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
