package main

import (
	"os"

	"github.com/tomhallmain/Spracherwerb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
