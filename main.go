package main

import (
	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/config"
	_ "github.com/leocov-dev/addonpack/internal/commands/cmdcurseforge"
	_ "github.com/leocov-dev/addonpack/internal/commands/cmdgithub"
	_ "github.com/leocov-dev/addonpack/internal/commands/cmdmigrate"
	_ "github.com/leocov-dev/addonpack/internal/commands/cmdmodrinth"
	_ "github.com/leocov-dev/addonpack/internal/commands/cmdpackwiz"
	_ "github.com/leocov-dev/addonpack/internal/commands/cmdsettings"
)

var Version string
var CfApiKey string
var GhApiKey string

func main() {
	config.SetVersion(Version)
	config.SetCurseforgeApiKey(CfApiKey)
	config.SetGitHubApiKey(GhApiKey)
	cmd.Execute()
}
