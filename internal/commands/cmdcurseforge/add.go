package cmdcurseforge

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/sources"
)

// categoryProjectType maps the category segment of a CurseForge url onto a project type.
func categoryProjectType(category string) core.ProjectType {
	switch category {
	case "mc-mods", "":
		return core.ProjectMod
	case "shaders":
		return core.ProjectShader
	case "texture-packs":
		return core.ProjectResourcepack
	case "data-packs":
		return core.ProjectDatapack
	case "modpacks":
		return core.ProjectModpack
	}
	return core.ProjectUnknown
}

type projectRef struct {
	projectID int
	fileID    int
	slug      string
	category  string
	// query is set when the argument is neither an id, a url nor a slug
	query string
}

func parseProjectRef(arg string) (projectRef, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return projectRef{projectID: id}, nil
	}
	game, category, slug, fileID, err := sources.CfParseSlugOrUrl(arg)
	if err != nil {
		return projectRef{}, err
	}
	if slug == "" {
		return projectRef{query: arg}, nil
	}
	if game != "" && game != "minecraft" {
		return projectRef{}, errors.New("only minecraft projects are supported")
	}
	return projectRef{slug: slug, category: category, fileID: fileID}, nil
}

// addCmd represents the add curseforge command
var addCmd = &cobra.Command{
	Use:     "curseforge [URL|slug|search]",
	Short:   "Add a project from a CurseForge URL, slug, ID or search",
	Aliases: []string{"cf", "curse"},
	Args:    cobra.ArbitraryArgs,
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()

		ref := projectRef{
			projectID: viper.GetInt("add.curseforge.addon-id"),
			fileID:    viper.GetInt("add.curseforge.file-id"),
			category:  viper.GetString("add.curseforge.category"),
		}
		if ref.projectID == 0 {
			if len(args) == 0 || len(args[0]) == 0 {
				shared.Exitln("You must specify a project; with the ID flags, or by passing a URL, slug or search term directly.")
			}
			parsed, err := parseProjectRef(strings.Join(args, " "))
			if err != nil {
				shared.Exitf("Failed to parse URL: %v\n", err)
			}
			if parsed.category == "" {
				parsed.category = ref.category
			}
			if ref.fileID != 0 {
				parsed.fileID = ref.fileID
			}
			ref = parsed
		}

		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()
		target := project.Pack.Target()
		projectType := categoryProjectType(ref.category)

		if ref.slug != "" {
			id, err := hub.CurseforgeBySlug(ctx, ref.slug, projectType)
			if errors.Is(err, core.ErrNotFound) {
				ref.query = ref.slug
			} else if err != nil {
				shared.Exitf("Failed to look up project: %s\n", err)
			}
			ref.projectID = id
		}
		if ref.projectID == 0 {
			hit, ok := cmdshared.SearchAndChoose(ctx, hub, core.RegistryCurseforge, ref.query, projectType, target)
			if !ok {
				return
			}
			id, err := strconv.Atoi(hit.ID)
			if err != nil {
				shared.Exitln(err)
			}
			ref.projectID = id
		}

		addon, err := hub.AddCurseforge(ctx, ref.projectID, ref.fileID, target)
		if err != nil {
			shared.Exitf("Failed to add project: %s\n", err)
		}
		cmdshared.FinishAdd(ctx, project, hub, addon)
	},
}

func init() {
	cmd.AddSource(addCmd)

	addCmd.Flags().Int("addon-id", 0, "The CurseForge project ID to use")
	_ = viper.BindPFlag("add.curseforge.addon-id", addCmd.Flags().Lookup("addon-id"))
	addCmd.Flags().Int("file-id", 0, "The CurseForge file ID to use")
	_ = viper.BindPFlag("add.curseforge.file-id", addCmd.Flags().Lookup("file-id"))
	addCmd.Flags().String("category", "", "The category to add files from (slug, as stored in URLs); the category in the URL takes precedence")
	_ = viper.BindPFlag("add.curseforge.category", addCmd.Flags().Lookup("category"))
}
