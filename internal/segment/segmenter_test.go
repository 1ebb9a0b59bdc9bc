package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two paragraphs",
			text: "Returns are accepted within 30 days.\n\nShipping takes 5-7 business days.",
			want: []string{"Returns are accepted within 30 days.", "Shipping takes 5-7 business days."},
		},
		{
			name: "no blank line",
			text: "Line one.\nLine two.",
			want: []string{"Line one.\nLine two."},
		},
		{
			name: "empty document",
			text: "",
			want: []string{""},
		},
		{
			name: "no trimming and empty sections kept",
			text: "  a  \n\n\n\nb\n",
			want: []string{"  a  ", "", "b\n"},
		},
		{
			name: "triple newline leaves leading newline",
			text: "a\n\n\nb",
			want: []string{"a", "\nb"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParagraphSegmenter().Segment(tt.text)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, len(got), 1)
		})
	}
}
