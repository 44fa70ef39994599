package main

import (
	"os"

	"bag2csv/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
