// File path: internal/workbook/options.go
package workbook

import (
	"github.com/cohortworks/bindery/internal/pdfops"
	"github.com/cohortworks/bindery/internal/render"
)

// Option adjusts optional collaborators on the workbook service.
type Option func(*options)

type options struct {
	renderer render.FragmentRenderer
	slots    pdfops.SlotMap
	stamp    *pdfops.StampPolicy
}

// WithRenderer overrides the fragment renderer. Used to swap the built-in
// renderer for the template+converter backed one, and by tests.
func WithRenderer(renderer render.FragmentRenderer) Option {
	return func(o *options) {
		o.renderer = renderer
	}
}

// WithSlotMap overrides the template slot layout.
func WithSlotMap(slots pdfops.SlotMap) Option {
	return func(o *options) {
		o.slots = slots
	}
}

// WithStampPolicy overrides the page numbering policy.
func WithStampPolicy(policy pdfops.StampPolicy) Option {
	return func(o *options) {
		o.stamp = &policy
	}
}
