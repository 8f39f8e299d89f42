package kit

import (
	"github.com/quillkit-dev/quillkit-host-sdk/blob"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// DisplayInline and DisplayBlock are the embed display styles accepted by
// the file and image capabilities.
const (
	DisplayInline = "inline"
	DisplayBlock  = "block"
)

// options captures everything a caller may configure. Values are read once
// at first build; later changes have no effect on the composed kit.
type options struct {
	mode        extension.Mode
	objectID    string
	objectClass string
	objectSpace string

	disableSubmit bool
	disableFile   bool
	disableImage  bool

	submitModifierSet bool
	submitModifier    bool

	fileDisplay  string
	imageDisplay string

	blobResolver blob.Resolver

	suppressPatterns []string
}

// Option configures kit composition.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		fileDisplay:  DisplayInline,
		imageDisplay: DisplayInline,
	}
}

func (o *options) buildContext() extension.BuildContext {
	return extension.BuildContext{
		Mode:        o.mode,
		ObjectID:    o.objectID,
		ObjectClass: o.objectClass,
		ObjectSpace: o.objectSpace,
	}
}

// submitRequiresModifier reports whether the submit capability demands a
// modifier key: caller override first, otherwise full mode requires one
// and compact mode does not.
func (o *options) submitRequiresModifier(mode extension.Mode) bool {
	if o.submitModifierSet {
		return o.submitModifier
	}
	return mode == extension.ModeFull
}

// WithMode selects the editing surface variant.
func WithMode(mode extension.Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithObject binds the kit to a target entity.
func WithObject(id, class, space string) Option {
	return func(o *options) {
		o.objectID = id
		o.objectClass = class
		o.objectSpace = space
	}
}

// DisableSubmit excludes the submit capability.
func DisableSubmit() Option {
	return func(o *options) { o.disableSubmit = true }
}

// DisableFileEmbed excludes the file-embedding capability.
func DisableFileEmbed() Option {
	return func(o *options) { o.disableFile = true }
}

// DisableImageEmbed excludes the image-embedding capability.
func DisableImageEmbed() Option {
	return func(o *options) { o.disableImage = true }
}

// WithSubmitModifier overrides the mode-derived modifier-key requirement
// of the submit capability.
func WithSubmitModifier(require bool) Option {
	return func(o *options) {
		o.submitModifierSet = true
		o.submitModifier = require
	}
}

// WithFileDisplay overrides the file embed display style.
func WithFileDisplay(display string) Option {
	return func(o *options) { o.fileDisplay = display }
}

// WithImageDisplay overrides the image embed display style.
func WithImageDisplay(display string) Option {
	return func(o *options) { o.imageDisplay = display }
}

// WithBlobResolver injects the blob-resolution callback handed to the
// image capability.
func WithBlobResolver(r blob.Resolver) Option {
	return func(o *options) { o.blobResolver = r }
}

// WithSuppressed drops dynamically registered extensions whose names match
// any of the given glob patterns (doublestar syntax).
func WithSuppressed(patterns ...string) Option {
	return func(o *options) {
		o.suppressPatterns = append(o.suppressPatterns, patterns...)
	}
}
