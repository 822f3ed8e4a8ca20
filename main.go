// main is the entry point of the caudal CLI.
package main

import (
	"os"

	"github.com/huangsam/caudal/cmd"
	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Command failed", err)
		iocache.CloseCaching()
		os.Exit(1)
	}
}
