package recognizer

import "fmt"

// BuildOCRPrompt returns the instruction sent with every page image.
func BuildOCRPrompt(width, height int) string {
	return fmt.Sprintf(`Analyze this slide image and recognize every block of text.

For each text block output:
- content: the text content
- x, y: top-left corner in pixels (the image is %dx%d pixels)
- width, height: block size in pixels
- font_size: estimated font size in points
- font_weight: "bold" or "normal"
- color: text color as hex, e.g. "#333333"
- confidence: recognition confidence between 0 and 1

Output JSON only, in the form {"texts": [...]}.

/no_think`, width, height)
}
