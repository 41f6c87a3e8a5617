// Command casefile manages a local case store for criminal investigations.
package main

import "github.com/mesh-intelligence/casefile/internal/cli"

func main() {
	cli.Execute()
}
