package notion

import (
	"encoding/json"
	"strings"
)

// textBlockTypes are the block types that carry a rich_text array worth
// rendering as plain text.
var textBlockTypes = map[string]bool{
	"paragraph":          true,
	"heading_1":          true,
	"heading_2":          true,
	"heading_3":          true,
	"bulleted_list_item": true,
	"numbered_list_item": true,
	"quote":              true,
	"to_do":              true,
	"toggle":             true,
	"callout":            true,
}

type richText struct {
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text"`
}

// ExtractText renders the textual blocks of a block list as plain text, one
// paragraph per block separated by blank lines. Blocks of other types, and
// blocks that cannot be decoded, are skipped.
func ExtractText(blocks []json.RawMessage) string {
	var paragraphs []string

	for _, raw := range blocks {
		var block map[string]json.RawMessage
		if err := json.Unmarshal(raw, &block); err != nil {
			continue
		}

		var blockType string
		if err := json.Unmarshal(block["type"], &blockType); err != nil {
			continue
		}
		if !textBlockTypes[blockType] {
			continue
		}

		var body struct {
			RichText []richText `json:"rich_text"`
		}
		if err := json.Unmarshal(block[blockType], &body); err != nil {
			continue
		}

		var sb strings.Builder
		for _, rt := range body.RichText {
			switch {
			case rt.PlainText != "":
				sb.WriteString(rt.PlainText)
			case rt.Text != nil:
				sb.WriteString(rt.Text.Content)
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}

	return strings.Join(paragraphs, "\n\n")
}
