package extension

// Priority is the numeric ordering key for extensions. Lower values sort
// earlier in the composed kit. Values need not be contiguous; dynamic
// factories may register anywhere between or around the reserved bands.
type Priority int

// Reserved priority bands for the static capability table. These are stable
// for compatibility with externally registered factories.
const (
	PriorityTable       Priority = 10
	PriorityTableRow    Priority = 20
	PriorityTableCell   Priority = 30
	PriorityTableHeader Priority = 40

	PriorityBase      Priority = 100
	PriorityCode      Priority = 200
	PriorityCodeBlock Priority = 210
	PriorityHardBreak Priority = 220
	PrioritySubmit    Priority = 300
	PriorityParagraph Priority = 400
	PriorityListKeys  Priority = 500
	PriorityNodeID    Priority = 600
	PriorityFileEmbed Priority = 700
	PriorityImage     Priority = 800
)

// Descriptor pairs a priority with an extension instance. A nil Ext records
// that a factory opted out for the current mode/context; such descriptors
// are filtered from the final sequence, never sorted into it.
type Descriptor struct {
	Ext      *Extension
	Priority Priority
}

// IsAbsent reports whether the descriptor carries no extension.
func (d Descriptor) IsAbsent() bool {
	return d.Ext == nil
}
