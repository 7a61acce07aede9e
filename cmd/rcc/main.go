package main

import (
	"os"

	"github.com/yutopp/rcc/cmd/rcc/cli"
)

func main() {
	os.Exit(cli.Execute())
}
