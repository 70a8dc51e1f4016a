package main

import (
	"os"

	"gitlab.com/chit-chat/kris/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
