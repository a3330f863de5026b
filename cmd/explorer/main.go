// Command explorer serves the API explorer page and runs its checks from
// the terminal.
package main

import "github.com/garunski/api-explorer/internal/cli"

func main() {
	cli.Execute()
}
