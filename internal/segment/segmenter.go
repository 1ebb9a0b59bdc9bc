package segment

import "strings"

// Separator is the blank-line boundary between sections.
const Separator = "\n\n"

// ParagraphSegmenter splits text into blank-line separated sections.
// Sections are kept verbatim: no trimming, and empty sections are valid candidates.
type ParagraphSegmenter struct{}

func NewParagraphSegmenter() *ParagraphSegmenter { return &ParagraphSegmenter{} }

func (ParagraphSegmenter) Segment(text string) []string { return Segment(text) }

// Segment always returns at least one section; text without a blank line is a single section.
func Segment(text string) []string {
	return strings.Split(text, Separator)
}
