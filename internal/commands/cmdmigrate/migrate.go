package cmdmigrate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move the modpack to another Minecraft version or mod loader",
}

// printPlan lists the classified addons, grouped by status.
func printPlan(w io.Writer, m *migrate.Migration) {
	for _, status := range []migrate.Status{migrate.StatusCompatible, migrate.StatusPartial, migrate.StatusIncompatible, migrate.StatusUnknown, migrate.StatusFailed} {
		results := m.Filter(status)
		if len(results) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s (%d):\n", status, len(results))
		for _, r := range results {
			line := "  " + r.Addon.Name
			if r.Candidate != nil && r.Candidate.ID != r.Addon.Source.Version() {
				line += fmt.Sprintf(" %s -> %s", r.Addon.Source.Version(), r.Candidate.ID)
			}
			if r.Addon.Options.Pinned {
				line += " (pinned)"
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// runMigration classifies every addon against newVersions, asks for confirmation and
// rewrites the pack and index.
func runMigration(ctx context.Context, project *cmdshared.Project, newVersions core.PackVersions) {
	hub := cmdshared.NewHub()

	fmt.Println("Checking addon compatibility...")
	m, err := migrate.Plan(ctx, hub, project.Index.Addons(), migrate.TargetFor(project.Pack, newVersions))
	if err != nil {
		shared.Exitln(err)
	}
	for _, r := range m.Failed() {
		shared.Warnf("Failed to check %s, it will be left unchanged: %s", r.Addon.Name, r.Err)
	}
	printPlan(os.Stdout, m)

	removeIncompatible := viper.GetBool("migrate.remove-incompatible")
	incompatible := m.Filter(migrate.StatusIncompatible)
	if len(incompatible) > 0 && !removeIncompatible {
		shared.Warnf("%d addons have no version for the new target and will stay on their current version", len(incompatible))
	}
	if !cmdshared.PromptYesNo("Do you want to migrate? [Y/n]: ") {
		fmt.Println("Cancelled!")
		return
	}

	summary, err := migrate.Apply(m, project.Index, project.Pack, newVersions, removeIncompatible)
	if err != nil {
		shared.Exitln(err)
	}
	project.Save(ctx)

	fmt.Printf("Migrated to Minecraft %s with %s %s\n", newVersions.Minecraft, newVersions.Loader.FriendlyName(), newVersions.LoaderVersion)
	fmt.Printf("%d addons updated, %d removed, %d pinned\n", len(summary.Updated), len(summary.Removed), len(summary.Pinned))
}

func init() {
	cmd.Add(migrateCmd)

	migrateCmd.PersistentFlags().Bool("remove-incompatible", false, "Remove addons that have no version for the new target")
	_ = viper.BindPFlag("migrate.remove-incompatible", migrateCmd.PersistentFlags().Lookup("remove-incompatible"))
}
