package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"painelans/backend/services/operadoras-service/internal/password"
)

// Reads the admin password from stdin and prints the bcrypt hash for OPERADORAS_ADMIN_PASSWORD_HASH.
func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "read password:", err)
		os.Exit(1)
	}

	hash, err := password.NewBcryptHasher(0).Hash(strings.TrimRight(line, "\r\n"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
