package main

import (
	"os"

	"github.com/havenmind/haven-server/havenservice"
)

func main() {
	if err := havenservice.Run(); err != nil {
		os.Exit(1)
	}
}
