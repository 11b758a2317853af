// Package mrpack reads and writes Modrinth modpacks (.mrpack).
package mrpack

import (
	"fmt"

	"github.com/leocov-dev/addonpack/core"
)

const (
	ManifestName  = "modrinth.index.json"
	FormatVersion = 1
	overridesDir  = "overrides"
)

// Downloads from other hosts are rejected by the Modrinth launcher.
var AllowedHosts = []string{
	"cdn.modrinth.com",
	"github.com",
	"raw.githubusercontent.com",
	"gitlab.com",
}

type Manifest struct {
	FormatVersion int               `json:"formatVersion"`
	Game          string            `json:"game"`
	VersionID     string            `json:"versionId"`
	Name          string            `json:"name"`
	Summary       string            `json:"summary,omitempty"`
	Files         []ManifestFile    `json:"files"`
	Dependencies  map[string]string `json:"dependencies"`
}

type ManifestFile struct {
	Path      string            `json:"path"`
	Hashes    map[string]string `json:"hashes"`
	Env       *Env              `json:"env,omitempty"`
	Downloads []string          `json:"downloads"`
	FileSize  int64             `json:"fileSize"`
}

type Env struct {
	Client string `json:"client"`
	Server string `json:"server"`
}

const (
	envRequired    = "required"
	envUnsupported = "unsupported"
)

// SideForEnv is the inverse of EnvForSide; a missing env means both sides.
func SideForEnv(env *Env) core.Side {
	switch {
	case env == nil:
		return core.SideBoth
	case env.Server == envUnsupported && env.Client != envUnsupported:
		return core.SideClient
	case env.Client == envUnsupported && env.Server != envUnsupported:
		return core.SideServer
	}
	return core.SideBoth
}

func EnvForSide(side core.Side) Env {
	switch side {
	case core.SideClient:
		return Env{Client: envRequired, Server: envUnsupported}
	case core.SideServer:
		return Env{Client: envUnsupported, Server: envRequired}
	}
	return Env{Client: envRequired, Server: envRequired}
}

var loaderDependencyKeys = map[core.ModLoader]string{
	core.LoaderFabric:   "fabric-loader",
	core.LoaderQuilt:    "quilt-loader",
	core.LoaderForge:    "forge",
	core.LoaderNeoForge: "neoforge",
}

func dependencies(versions core.PackVersions) map[string]string {
	deps := map[string]string{"minecraft": versions.Minecraft}
	if key, ok := loaderDependencyKeys[versions.Loader]; ok {
		deps[key] = versions.LoaderVersion
	}
	return deps
}

func packVersions(deps map[string]string) (core.PackVersions, error) {
	mc, ok := deps["minecraft"]
	if !ok || mc == "" {
		return core.PackVersions{}, fmt.Errorf("manifest has no minecraft dependency: %w", core.ErrBadImport)
	}
	for _, loader := range core.AllLoaders {
		if v, ok := deps[loaderDependencyKeys[loader]]; ok {
			return core.PackVersions{Minecraft: mc, Loader: loader, LoaderVersion: v}, nil
		}
	}
	return core.PackVersions{}, fmt.Errorf("manifest has no supported loader dependency: %w", core.ErrBadImport)
}
