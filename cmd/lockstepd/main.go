// Command lockstepd operates a wallet store from the command line:
// create wallets, propose transactions, approve them and trigger
// execution. State lives in a local bolt database, and dispatched
// instructions are logged rather than forwarded anywhere.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
