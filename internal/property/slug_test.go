package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple title", title: "Sunset Villa", want: "sunset-villa"},
		{name: "punctuation collapsed", title: "3BHK Flat, Baner (Pune)!", want: "3bhk-flat-baner-pune"},
		{name: "leading and trailing noise", title: "  --Luxury Penthouse--  ", want: "luxury-penthouse"},
		{name: "already a slug", title: "modern-row-house", want: "modern-row-house"},
		{name: "empty", title: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
