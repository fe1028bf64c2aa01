// cmd/promptdeck/main.go
package main

import (
	promptdeck "github.com/mwiater/promptdeck/internal/commands"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = promptdeck.SetVersionInfo
	executeCmd     = promptdeck.Execute
)

// main starts the promptdeck CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
