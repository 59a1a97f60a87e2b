// File path: internal/pdfops/assemble.go
package pdfops

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/cohortworks/bindery/internal/common"
)

// Role identifies which fragment a template slot receives.
type Role string

const (
	RoleCover     Role = "cover"
	RoleSurvey    Role = "survey"
	RoleStrengths Role = "strengths"
	RoleConflict  Role = "conflict"
)

// Slot marks a zero-based template page index as replaced by a fragment.
type Slot struct {
	Index int  `json:"index"`
	Role  Role `json:"role"`
}

// SlotMap is the ordered page-index layout of a template family. Template
// pages at slot indices are wholly replaced by the slot's fragment; all other
// pages pass through untouched.
type SlotMap []Slot

// DefaultSlotMap is the layout shared by the current booklet templates.
func DefaultSlotMap() SlotMap {
	return SlotMap{
		{Index: 0, Role: RoleCover},
		{Index: 4, Role: RoleSurvey},
		{Index: 8, Role: RoleStrengths},
		{Index: 11, Role: RoleConflict},
	}
}

// Validate rejects a layout whose slots cannot exist in a template with the
// given page count, turning the out-of-range fault into a clear structural
// error before any page work starts.
func (m SlotMap) Validate(pageCount int) error {
	seen := make(map[int]bool, len(m))
	for _, slot := range m {
		if slot.Index < 0 {
			return fmt.Errorf("slot index %d negative", slot.Index)
		}
		if slot.Index >= pageCount {
			return fmt.Errorf("template has %d pages, slot %q needs page index %d", pageCount, slot.Role, slot.Index)
		}
		if seen[slot.Index] {
			return fmt.Errorf("slot index %d assigned twice", slot.Index)
		}
		seen[slot.Index] = true
	}
	return nil
}

func (m SlotMap) role(index int) (Role, bool) {
	for _, slot := range m {
		if slot.Index == index {
			return slot.Role, true
		}
	}
	return "", false
}

// Fragments are the per-role documents spliced into the template.
type Fragments map[Role][]byte

// Assemble builds the composite workbook: for each template page index, the
// slot's entire fragment is spliced in (one-to-many, fragment page order
// preserved), any other page is copied through. Page sizes are passed through
// as-is; no scaling or rotation is applied.
func Assemble(template []byte, frags Fragments, slots SlotMap) ([]byte, error) {
	logger := common.Logger()
	ctx, err := api.ReadContext(bytes.NewReader(template), nil)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	// ReadContext alone leaves the page tree unresolved; validation fills in
	// PageCount and the page cache.
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate template: %w", err)
	}
	if err := slots.Validate(ctx.PageCount); err != nil {
		return nil, err
	}
	for _, slot := range slots {
		if len(frags[slot.Role]) == 0 {
			return nil, fmt.Errorf("fragment %q required by slot %d is missing", slot.Role, slot.Index)
		}
	}

	parts := make([]io.ReadSeeker, 0, ctx.PageCount)
	for i := 0; i < ctx.PageCount; i++ {
		if role, ok := slots.role(i); ok {
			parts = append(parts, bytes.NewReader(frags[role]))
			continue
		}
		pageCtx, err := pdfcpu.ExtractPages(ctx, []int{i + 1}, false)
		if err != nil {
			return nil, fmt.Errorf("extract template page %d: %w", i, err)
		}
		var buf bytes.Buffer
		if err := api.WriteContext(pageCtx, &buf); err != nil {
			return nil, fmt.Errorf("write template page %d: %w", i, err)
		}
		parts = append(parts, bytes.NewReader(buf.Bytes()))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(parts, &out, false, nil); err != nil {
		return nil, fmt.Errorf("merge workbook: %w", err)
	}
	logger.Debug("pdfops: assembled workbook", "template_pages", ctx.PageCount, "slots", len(slots))
	return out.Bytes(), nil
}

// PageCount reports a document's page count.
func PageCount(doc []byte) (int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(doc), nil)
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("validate pdf: %w", err)
	}
	return ctx.PageCount, nil
}
