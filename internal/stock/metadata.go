package stock

import "slices"

// Metadata lists the distinct values usable for filter dropdowns.
type Metadata struct {
	Products     []string `json:"products"`
	StockTypes   []string `json:"stockTypes"`
	Warehouses   []string `json:"warehouses"`
	StorageBins  []string `json:"storageBins"`
	TotalRecords int      `json:"totalRecords"`
}

func Aggregate(records []Record) Metadata {
	return Metadata{
		Products:     distinctSorted(records, func(r Record) string { return r.Product }),
		StockTypes:   distinctSorted(records, func(r Record) string { return r.StockType }),
		Warehouses:   distinctSorted(records, func(r Record) string { return r.Warehouse }),
		StorageBins:  distinctSorted(records, func(r Record) string { return r.StorageBin }),
		TotalRecords: len(records),
	}
}

func distinctSorted(records []Record, field func(Record) string) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, 16)

	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	slices.Sort(out)
	return out
}

func (m Metadata) clone() Metadata {
	return Metadata{
		Products:     slices.Clone(m.Products),
		StockTypes:   slices.Clone(m.StockTypes),
		Warehouses:   slices.Clone(m.Warehouses),
		StorageBins:  slices.Clone(m.StorageBins),
		TotalRecords: m.TotalRecords,
	}
}
