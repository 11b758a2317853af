package cmdmigrate

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/shared"
)

type versionLister func(ctx context.Context, mcVersion string, loader core.ModLoader) ([]string, string, error)

// resolveLoaderVersion turns "latest", "recommended" or an explicit version into a
// loader version that exists for mcVersion.
func resolveLoaderVersion(ctx context.Context, list versionLister, loader core.ModLoader, mcVersion, wanted string) (string, error) {
	versions, latest, err := list(ctx, mcVersion, loader)
	if err != nil {
		return "", err
	}

	switch wanted {
	case "", "latest":
		return latest, nil
	case "recommended":
		if loader != core.LoaderForge {
			return "", fmt.Errorf("the recommended loader version is only available on Forge")
		}
		wanted = core.GetForgeRecommended(ctx, mcVersion)
		if wanted == "" {
			return "", fmt.Errorf("no recommended Forge version for %s", mcVersion)
		}
	}

	if loader == core.LoaderForge {
		wanted = shared.GetRawForgeVersion(wanted)
	}
	if !slices.Contains(versions, wanted) {
		return "", fmt.Errorf("version %s is not a valid version for %s on Minecraft %s", wanted, loader.FriendlyName(), mcVersion)
	}
	return wanted, nil
}

// keepsLoaderVersion reports whether a loader version stays valid across minecraft versions.
func keepsLoaderVersion(loader core.ModLoader) bool {
	return !core.ModLoaders[loader].PerMinecraft
}
