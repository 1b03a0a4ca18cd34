// Command hash-admin-secret prints a bcrypt hash suitable for ADMIN_API_SECRET_HASH.
//
//	hash-admin-secret [-cost 12] <secret>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spec-kit/support-desk/internal/auth"
)

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost (0 uses the library default)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hash-admin-secret [-cost N] <secret>")
		os.Exit(2)
	}

	hash, err := auth.HashSecret(flag.Arg(0), *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash secret: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
