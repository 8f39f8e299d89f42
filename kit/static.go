package kit

import (
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// PlaceholderImage is the fixed placeholder shown while an image blob
// resolves: a 1x1 transparent PNG.
const PlaceholderImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// headingLevels is the supported heading level set. Not caller-configurable.
var headingLevels = []int{1, 2, 3}

// listPairings maps each list type to its item node name. Fixed mapping,
// not caller-configurable.
var listPairings = map[string]string{
	"orderedList": "listItem",
	"bulletList":  "listItem",
	"taskList":    "taskItem",
	"todoList":    "todoItem",
}

// tableExtensions returns the table-support band (10-40). Always included,
// not user-configurable.
func tableExtensions() []extension.Descriptor {
	return []extension.Descriptor{
		{Priority: extension.PriorityTable, Ext: extension.New("table", map[string]any{
			"resizable": true,
		})},
		{Priority: extension.PriorityTableRow, Ext: extension.New("tableRow", nil)},
		{Priority: extension.PriorityTableCell, Ext: extension.New("tableCell", nil)},
		{Priority: extension.PriorityTableHeader, Ext: extension.New("tableHeader", nil)},
	}
}

// staticExtensions constructs the static capability list (100-800) for the
// given mode, honoring feature toggles.
func staticExtensions(mode extension.Mode, o *options) []extension.Descriptor {
	descriptors := []extension.Descriptor{
		{Priority: extension.PriorityBase, Ext: extension.New("base", map[string]any{
			"heading": map[string]any{"levels": headingLevels},
			"history": true,
		})},
		{Priority: extension.PriorityCode, Ext: extension.New("code", nil)},
		{Priority: extension.PriorityCodeBlock, Ext: extension.New("codeBlock", map[string]any{
			"defaultLanguage":   "plaintext",
			"exitOnTripleEnter": true,
		})},
		{Priority: extension.PriorityHardBreak, Ext: extension.New("hardBreak", nil)},
	}

	if !o.disableSubmit {
		descriptors = append(descriptors, extension.Descriptor{
			Priority: extension.PrioritySubmit,
			Ext: extension.New("submit", map[string]any{
				"useModKey": o.submitRequiresModifier(mode),
			}),
		})
	}

	if mode == extension.ModeCompact {
		descriptors = append(descriptors, extension.Descriptor{
			Priority: extension.PriorityParagraph,
			Ext:      extension.New("paragraph", nil),
		})
	}

	descriptors = append(descriptors,
		extension.Descriptor{
			Priority: extension.PriorityListKeys,
			Ext: extension.New("listKeys", map[string]any{
				"listTypes": listPairings,
			}),
		},
		extension.Descriptor{
			Priority: extension.PriorityNodeID,
			Ext:      extension.New("uniqueID", nil),
		},
	)

	if !o.disableFile {
		descriptors = append(descriptors, extension.Descriptor{
			Priority: extension.PriorityFileEmbed,
			Ext: extension.New("fileEmbed", map[string]any{
				"display": o.fileDisplay,
			}),
		})
	}

	if !o.disableImage {
		config := map[string]any{
			"display":     o.imageDisplay,
			"placeholder": PlaceholderImage,
		}
		if o.blobResolver != nil {
			config["resolveBlob"] = o.blobResolver
		}
		descriptors = append(descriptors, extension.Descriptor{
			Priority: extension.PriorityImage,
			Ext:      extension.New("image", config),
		})
	}

	return descriptors
}
