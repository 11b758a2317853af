package cmdshared

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/leocov-dev/addonpack/core"
)

// LoaderListValue is a comma separated list of mod loaders, validated as it is parsed.
type LoaderListValue struct {
	Loaders []core.ModLoader
	changed bool
}

var _ pflag.Value = (*LoaderListValue)(nil)

func (v *LoaderListValue) String() string {
	names := make([]string, len(v.Loaders))
	for i, l := range v.Loaders {
		names[i] = string(l)
	}
	return strings.Join(names, ",")
}

// Set appends to the list; the first call replaces the default.
func (v *LoaderListValue) Set(s string) error {
	if !v.changed {
		v.Loaders = nil
		v.changed = true
	}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		loader, err := core.ParseModLoader(part)
		if err != nil {
			return err
		}
		v.Loaders = append(v.Loaders, loader)
	}
	return nil
}

func (v *LoaderListValue) Type() string {
	return "loaders"
}
