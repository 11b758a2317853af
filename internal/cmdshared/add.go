package cmdshared

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/sources"
)

// SearchAndChoose searches registry for query and lets the user pick a hit. ok is
// false when nothing was found or the user cancelled.
func SearchAndChoose(ctx context.Context, hub *sources.Hub, registry core.Registry, query string, projectType core.ProjectType, target core.Target) (sources.SearchHit, bool) {
	fmt.Printf("Searching %s for %q...\n", registry, query)
	hits, err := hub.Search(ctx, registry, query, projectType, target)
	if err != nil {
		shared.Exitf("Failed to search for project: %s\n", err)
	}
	if len(hits) == 0 {
		fmt.Println("No projects found!")
		return sources.SearchHit{}, false
	}

	hit, ok, err := ChooseHit(hits)
	if err != nil {
		shared.Exitln(err)
	}
	return hit, ok
}

// FinishAdd installs addons with their dependency closure and saves the project.
func FinishAdd(ctx context.Context, project *Project, hub *sources.Hub, addons ...*core.Addon) {
	installed, err := InstallAddons(ctx, hub, project.Index, project.Pack.Target(), Policy(), addons...)
	if err != nil {
		shared.Exitf("Failed to add project: %s\n", err)
	}
	if len(installed) == 0 {
		fmt.Println("Nothing new to add")
		return
	}

	project.Save(ctx)
	for _, addon := range installed {
		kind := "Dependency"
		if slices.Contains(addons, addon) {
			kind = "Project"
		}
		fmt.Printf("%s \"%s\" successfully added! (%s)\n", kind, addon.Name, addon.Source.Version())
	}
}
