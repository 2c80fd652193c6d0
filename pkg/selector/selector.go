package selector

import "github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"

// Selector is a predicate on devices plus metadata accessors. Selectors
// are pure: Matches must not have side effects, since a single Selector
// instance may be evaluated repeatedly and concurrently by the
// Availability Queue while waiters are polling.
type Selector interface {
	Matches(d *device.Device) bool
	Product() string
	Variant() string
	Serial() string
	MinBattery() int
}

// Criteria is the default Selector implementation: every non-zero field
// narrows the match. An empty Criteria matches any device.
type Criteria struct {
	WantProduct    string
	WantVariant    string
	WantSerial     string
	WantMinBattery int
}

var _ Selector = Criteria{}

func (c Criteria) Product() string { return c.WantProduct }
func (c Criteria) Variant() string { return c.WantVariant }
func (c Criteria) Serial() string  { return c.WantSerial }
func (c Criteria) MinBattery() int { return c.WantMinBattery }

// Matches reports whether d satisfies every non-zero field of c.
func (c Criteria) Matches(d *device.Device) bool {
	if d == nil {
		return false
	}
	if c.WantProduct != "" && d.Product != c.WantProduct {
		return false
	}
	if c.WantVariant != "" && d.Variant.String() != c.WantVariant {
		return false
	}
	if c.WantSerial != "" && d.Serial != c.WantSerial {
		return false
	}
	if c.WantMinBattery > 0 && d.Battery < c.WantMinBattery {
		return false
	}
	return true
}

// Any matches every device.
func Any() Selector { return Criteria{} }

// BySerial matches exactly one serial. Used by forceAllocate's
// single-serial poll (§4.4).
func BySerial(serial string) Selector { return Criteria{WantSerial: serial} }
