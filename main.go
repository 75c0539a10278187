package main

import (
	"log"

	"github.com/spigell/hireflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
