// Command reportctl assembles polis reports from the command line.
package main

import (
	"os"

	"report-assembler/cmd/reportctl/cmd"

	"github.com/joho/godotenv"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	_ = godotenv.Load()

	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
