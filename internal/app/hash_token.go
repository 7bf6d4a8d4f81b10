package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/dynamictranslator/internal/auth"
)

// runHashToken prints a bcrypt hash for API_TOKEN_HASH. The token is the
// first argument, or the first stdin line when there is none.
func runHashToken(args []string) int {
	fs := flag.NewFlagSet("hash-token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	generate := fs.Bool("generate", false, "Generate a random token and print it with its hash")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var token string
	if *generate {
		generated, err := auth.GenerateToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
			return 1
		}
		token = generated
	} else if fs.NArg() > 0 {
		token = fs.Arg(0)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "usage: dynamictranslator hash-token [--generate] [token]")
			return 2
		}
		token = strings.TrimSpace(line)
	}

	hash, err := auth.HashToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash token: %v\n", err)
		return 1
	}

	if *generate {
		fmt.Printf("API token: %s\n", token)
	}
	fmt.Printf("API_TOKEN_HASH=%s\n", hash)
	return 0
}
