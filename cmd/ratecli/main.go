// Comando ratecli: cliente de terminal da API StoreRating.
package main

import (
	"os"
)

func main() {
	if err := execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
