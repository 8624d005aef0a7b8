package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kylian Mbappé joins Real Madrid!", "kylian-mbappe-joins-real-madrid"},
		{"  Müller stays at Bayern  ", "muller-stays-at-bayern"},
		{"Ødegaard & Saka extend", "odegaard-and-saka-extend"},
		{"£100m deal: done?", "100m-deal-done"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestSlugify_IsStableAndValid(t *testing.T) {
	title := "Arsenal complete £105m Declan Rice signing from West Ham"
	first := Slugify(title)
	assert.Equal(t, first, Slugify(title))
	assert.True(t, IsValidSlug(first))
}

func TestSlugify_Truncates(t *testing.T) {
	s := Slugify(strings.Repeat("transfer news ", 20))
	assert.LessOrEqual(t, len(s), MaxSlugLength)
	assert.False(t, strings.HasSuffix(s, "-"))
	assert.True(t, IsValidSlug(s))
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("rice-joins-arsenal"))
	assert.False(t, IsValidSlug("Rice-Joins"))
	assert.False(t, IsValidSlug("double--dash"))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug(""))
}
