package main

import (
	"os"

	"github.com/yutopp/rcc/cmd/rcc1/cli"
)

func main() {
	os.Exit(cli.Execute())
}
