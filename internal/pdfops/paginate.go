// File path: internal/pdfops/paginate.go
package pdfops

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/common/telemetry"
)

// StampPolicy governs page-number stamping.
type StampPolicy struct {
	// StartIndex is the zero-based page index of the first stamped page.
	StartIndex int
	// StartNumber is the label assigned at StartIndex; later pages continue
	// sequentially.
	StartNumber int
	// Margin is the distance in points from the page's right and bottom
	// edges.
	Margin float64
	// Font is a PDF core font name.
	Font string
	// Size is the font size in points.
	Size float64
}

// DefaultStampPolicy matches the booklet layout: the first three pages carry
// no number and numbering starts at 3.
func DefaultStampPolicy() StampPolicy {
	return StampPolicy{StartIndex: 3, StartNumber: 3, Margin: 36, Font: "Times-Roman", Size: 10}
}

const (
	inkDark  = "#000000"
	inkLight = "#ffffff"
)

// stampColor picks the ink for a page: landscape pages in these booklets have
// dark backgrounds, so they get light ink.
func stampColor(dim types.Dim) string {
	if dim.Width > dim.Height {
		return inkLight
	}
	return inkDark
}

// Paginate overlays a right-bottom-aligned page number on every page at or
// past the policy's start index. Each stamp is placed against the page's own
// media box, so mixed fragment sizes land correctly. Stamping is not
// idempotent: a second pass overlays a second label.
func Paginate(doc []byte, policy StampPolicy) ([]byte, error) {
	logger := common.Logger()
	ctx, err := api.ReadContext(bytes.NewReader(doc), nil)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	// ReadContext alone leaves the page tree unresolved; validation fills in
	// PageCount and the page cache.
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("page dimensions: %w", err)
	}

	start := policy.StartIndex
	if start < 0 {
		start = 0
	}
	if start >= ctx.PageCount {
		logger.Warn("pdfops: nothing to stamp", "pages", ctx.PageCount, "start_index", policy.StartIndex)
		return append([]byte(nil), doc...), nil
	}

	stamps := make(map[int]*model.Watermark, ctx.PageCount-start)
	for i := start; i < ctx.PageCount; i++ {
		label := strconv.Itoa(policy.StartNumber + (i - start))
		desc := fmt.Sprintf(
			"fontname:%s, points:%d, scalefactor:1 abs, position:br, offset:-%d %d, fillcolor:%s, rotation:0, opacity:1",
			policy.Font, int(policy.Size), int(policy.Margin), int(policy.Margin), stampColor(dims[i]),
		)
		wm, err := api.TextWatermark(label, desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("build stamp for page %d: %w", i, err)
		}
		stamps[i+1] = wm
	}

	var out bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(doc), &out, stamps, nil); err != nil {
		return nil, fmt.Errorf("stamp pages: %w", err)
	}
	telemetry.RecordPagesStamped(len(stamps))
	logger.Debug("pdfops: paginated", "pages", ctx.PageCount, "stamped", len(stamps), "first_label", policy.StartNumber)
	return out.Bytes(), nil
}
