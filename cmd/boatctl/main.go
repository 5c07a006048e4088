package main

import (
	"github.com/regattadev/boatrace/internal/cli"
)

func main() {
	cli.Execute()
}
