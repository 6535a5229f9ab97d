package classification

import (
	"fmt"
	"strings"
)

// Prompt is the instruction sent to the video-understanding provider. It names
// the record fields and every known category so the reply matches Extract.
var Prompt = buildPrompt(knownCategories)

func buildPrompt(categories []Category) string {
	var b strings.Builder
	b.WriteString("Analyze the following video and classify its content based on explicit or restricted materials. ")
	b.WriteString("Return the output in the following JSON format: ")
	b.WriteString(`{"safe": "Yes" or "No", "explicit_content": {`)
	for i, category := range categories {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: [Yes/No, Severity]", string(category))
	}
	b.WriteString(`}, "annotations": {"explicit content": ["exact timestamp of the video where the explicit content is found"]}}. `)
	b.WriteString(`Use "None" as the severity when a category is not present.`)
	return b.String()
}
