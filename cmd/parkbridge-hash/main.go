// Command parkbridge-hash generates the bcrypt hash for API_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"parkbridge/internal/pkg/password"
)

func main() {
	var plain string
	if len(os.Args) > 1 {
		plain = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to read password:", err)
			os.Exit(1)
		}
		plain = strings.TrimRight(line, "\r\n")
	}

	hash, err := password.Hash(plain)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to hash password:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
