package main

import (
	_ "time/tzdata"

	"daybook/internal/cli"
)

func main() {
	cli.Execute()
}
