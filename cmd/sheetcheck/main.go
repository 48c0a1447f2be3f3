package main

import (
	"os"

	"github.com/JonMunkholm/sheetcheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
