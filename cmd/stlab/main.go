// File path: cmd/stlab/main.go
package main

import "github.com/controlforge/stlab/internal/cli"

func main() {
	cli.Execute()
}
