package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Basic lowercase conversion", "Hello World", "hello-world"},
		{"Remove parentheses and content inside", "Product (Special Edition)", "product"},
		{"Remove suffix after hyphen-space", "Movie - Director's Cut", "movie"},
		{"Replace non-alphanumeric with hyphens", "Hello! @World#", "hello-world"},
		{"Collapse multiple hyphens", "Hello---World", "hello-world"},
		{"Remove leading and trailing hyphens", "-hello-world-", "hello-world"},
		{"Empty string", "", ""},
		{"Only special characters", "!@#$%^&*()", ""},
		{"Combination of all transformations", "Product Name (Limited Edition) - Special Version 2.0!", "product-name"},
		{"Numbers preserved", "Product123", "product123"},
		{"Multiple spaces", "Hello  World", "hello-world"},
		{"Special characters between words", "Hello@World", "hello-world"},
		{"Parentheses with no content", "Product ()", "product"},
		{"Multiple parenthetical expressions", "Product (A) (B)", "product"},
		{"Multiple hyphen-space patterns", "A - B - C", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugifyName(tt.input))
		})
	}
}
