package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
)

// Descriptor combines a pool entry's identity and metadata for listing
// and reporting (§4.10). The manager's available and unavailable
// listings skip placeholders; its allocated listing includes them.
type Descriptor struct {
	Serial          string
	AllocationState device.AllocationState
	Product         string
	Variant         device.Variant
	SDKVersion      string
	Build           string
	Battery         int
}

// Sort orders descriptors by allocation-state name ascending, then
// serial ascending, in place.
func Sort(descriptors []Descriptor) {
	sort.Slice(descriptors, func(i, j int) bool {
		si, sj := descriptors[i].AllocationState.String(), descriptors[j].AllocationState.String()
		if si != sj {
			return si < sj
		}
		return descriptors[i].Serial < descriptors[j].Serial
	})
}

// WriteTable writes descriptors to w as a tab-aligned table with
// columns Serial, State, Product, Variant, Build, Battery. descriptors
// is sorted in place first.
func WriteTable(w io.Writer, descriptors []Descriptor) error {
	Sort(descriptors)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Serial\tState\tProduct\tVariant\tBuild\tBattery")
	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			d.Serial, d.AllocationState, d.Product, d.Variant, d.Build, d.Battery)
	}
	return tw.Flush()
}
