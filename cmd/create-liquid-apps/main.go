package main

import (
	"log"

	"github.com/fatih/color"

	"github.com/avail-project/create-liquid-apps/internal/cli"
)

func main() {
	log.SetFlags(0)
	if err := cli.Execute(); err != nil {
		log.Fatal(color.RedString(err.Error()))
	}
}
