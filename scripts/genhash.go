package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Generates credential digests for seeding identities. Pass secrets as
// arguments; the output goes into identities.credential_digest. The client
// sends this same digest at login.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <secret> [<secret> ...]")
		os.Exit(1)
	}

	for _, secret := range os.Args[1:] {
		sum := sha256.Sum256([]byte(secret))
		fmt.Printf("%s  %s\n", hex.EncodeToString(sum[:]), secret)
	}
}
