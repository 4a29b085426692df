package stock

import "strings"

// Criteria narrows a search. Empty fields do not constrain.
type Criteria struct {
	Product      string
	StockType    string
	Batch        string
	HandlingUnit string
	StorageBin   string
}

func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Filter returns the records matching every non-empty criterion, in their
// original order. StockType must match exactly; the other fields match as
// substrings. Both ignore case.
func Filter(records []Record, c Criteria) []Record {
	m := c.matcher()

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

type matcher struct {
	product      string
	stockType    string
	batch        string
	handlingUnit string
	storageBin   string
}

func (c Criteria) matcher() matcher {
	return matcher{
		product:      strings.ToUpper(c.Product),
		stockType:    strings.ToUpper(c.StockType),
		batch:        strings.ToUpper(c.Batch),
		handlingUnit: strings.ToUpper(c.HandlingUnit),
		storageBin:   strings.ToUpper(c.StorageBin),
	}
}

func (m matcher) match(r Record) bool {
	if m.stockType != "" && strings.ToUpper(r.StockType) != m.stockType {
		return false
	}
	return contains(r.Product, m.product) &&
		contains(r.Batch, m.batch) &&
		contains(r.HandlingUnit, m.handlingUnit) &&
		contains(r.StorageBin, m.storageBin)
}

func contains(field, upperNeedle string) bool {
	if upperNeedle == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(field), upperNeedle)
}
