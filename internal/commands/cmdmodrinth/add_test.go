package cmdmodrinth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProjectRef(t *testing.T) {
	tests := []struct {
		arg     string
		project string
		version string
	}{
		{"https://modrinth.com/mod/sodium", "sodium", ""},
		{"https://www.modrinth.com/shader/complementary-reimagined", "complementary-reimagined", ""},
		{"https://modrinth.com/mod/lithium/version/mc1.20.1-0.11.2", "lithium", "mc1.20.1-0.11.2"},
		{"https://modrinth.com/mod/iris?tab=versions", "iris", ""},
		{"AANobbMI", "AANobbMI", ""},
		{"sodium extra", "sodium extra", ""},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			project, version := parseProjectRef(tt.arg)
			assert.Equal(t, tt.project, project)
			assert.Equal(t, tt.version, version)
		})
	}
}
