package main

import (
	"os"

	"github.com/mediaops/piisentry/cmd/piisentry/commands"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, buildTime)

	// Inside the Lambda runtime the binary serves invocations; anywhere
	// else it is the operator CLI.
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		commands.RunLambda()
		return
	}

	commands.Execute()
}
