package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

type pendingUpdate struct {
	old     *core.Addon
	updated *core.Addon
}

type updateCheck struct {
	addon   *core.Addon
	pending *pendingUpdate
	err     error
}

// checkUpdates picks the best compatible version for every addon and returns the
// ones that would move. Per-addon failures are returned next to the updates.
func checkUpdates(ctx context.Context, lister core.CandidateLister, addons []*core.Addon, target core.Target) ([]pendingUpdate, []updateCheck, error) {
	checks := make([]updateCheck, len(addons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for i, addon := range addons {
		i, addon := i, addon
		g.Go(func() error {
			checks[i] = checkUpdate(gctx, lister, addon, target)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var updates []pendingUpdate
	var failed []updateCheck
	for _, c := range checks {
		if c.err != nil {
			failed = append(failed, c)
		} else if c.pending != nil {
			updates = append(updates, *c.pending)
		}
	}
	return updates, failed, nil
}

func checkUpdate(ctx context.Context, lister core.CandidateLister, addon *core.Addon, target core.Target) updateCheck {
	check := updateCheck{addon: addon}
	t := target.ForAddon(addon)
	candidates, err := lister.Candidates(ctx, addon, t)
	if err != nil {
		check.err = err
		return check
	}
	best, err := core.SelectVersion(candidates, t, addon.ProjectType)
	if err != nil {
		check.err = err
		return check
	}
	if best.ID == addon.Source.Version() {
		return check
	}
	updated, err := lister.Repoint(addon, best)
	if err != nil {
		check.err = err
		return check
	}
	check.pending = &pendingUpdate{old: addon, updated: updated}
	return check
}

// UpdateCmd represents the update command
var UpdateCmd = &cobra.Command{
	Use:     "update [name]...",
	Short:   "Update addons (or all addons) in the modpack to their newest compatible version",
	Aliases: []string{"upgrade"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		fmt.Println("Loading modpack...")
		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()

		var addons []*core.Addon
		if len(args) == 0 {
			if !viper.GetBool("update.all") {
				shared.Exitln("Must specify addons to update, or use the --all flag!")
			}
			for _, addon := range project.Index.Addons() {
				if addon.Options.Pinned {
					fmt.Printf("Update skipped for pinned addon %s\n", addon.Name)
					continue
				}
				addons = append(addons, addon)
			}
		} else {
			for _, name := range args {
				addon := project.Index.Select(name)
				if addon == nil {
					shared.Exitf("Can't find %s in the modpack%s\n", name, didYouMean(project.Index, name))
				}
				if addon.Options.Pinned {
					shared.Exitf("%s is pinned; run the unpin command to allow updating\n", addon.Name)
				}
				addons = append(addons, addon)
			}
		}

		fmt.Println("Checking for updates...")
		updates, failed, err := checkUpdates(ctx, hub, addons, project.Pack.Target())
		if err != nil {
			shared.Exitln(err)
		}
		for _, f := range failed {
			if !core.IsRecoverable(f.err) {
				shared.Exitf("Failed to check updates for %s: %s\n", f.addon.Name, f.err)
			}
			shared.Warnf("Failed to check updates for %s: %s", f.addon.Name, f.err)
		}

		if len(updates) == 0 {
			fmt.Println("All addons are up to date!")
			return
		}

		fmt.Println("Updates found:")
		for _, u := range updates {
			fmt.Printf("%s: %s -> %s\n", u.old.Name, u.old.Source.Version(), u.updated.Source.Version())
		}
		if !cmdshared.PromptYesNo("Do you want to update? [Y/n]: ") {
			fmt.Println("Cancelled!")
			return
		}

		for _, u := range updates {
			project.Index.Replace(u.old, u.updated)
		}
		project.Save(ctx)
		fmt.Printf("%d addons updated!\n", len(updates))
	},
}

func init() {
	rootCmd.AddCommand(UpdateCmd)

	UpdateCmd.Flags().BoolP("all", "a", false, "Update all unpinned addons")
	_ = viper.BindPFlag("update.all", UpdateCmd.Flags().Lookup("all"))
}
