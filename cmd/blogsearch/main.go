// Command blogsearch searches a Markdown blog from the terminal or over HTTP.
package main

import (
	"os"

	"blogsearch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
