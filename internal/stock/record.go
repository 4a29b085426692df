package stock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrDataLoad    = errors.New("stock data load failed")
	ErrNotFound    = errors.New("stock record not found")
	ErrInvalidPage = errors.New("invalid page request")
)

var validate = validator.New()

// Record is one warehouse physical stock entry. Field names on the wire
// follow the EWM physical stock API.
type Record struct {
	ID           string  `json:"id" yaml:"id" validate:"required"`
	Product      string  `json:"Product" yaml:"Product" validate:"required"`
	Warehouse    string  `json:"EWMWarehouse" yaml:"EWMWarehouse" validate:"required"`
	StockType    string  `json:"EWMStockType" yaml:"EWMStockType" validate:"required"`
	Batch        string  `json:"Batch" yaml:"Batch"`
	HandlingUnit string  `json:"HandlingUnitNumber" yaml:"HandlingUnitNumber"`
	StorageBin   string  `json:"EWMStorageBin" yaml:"EWMStorageBin" validate:"required"`
	Quantity     float64 `json:"EWMStockQuantityInBaseUnit" yaml:"EWMStockQuantityInBaseUnit" validate:"gte=0"`
	QuantityUnit string  `json:"EWMStockQuantityBaseUnit" yaml:"EWMStockQuantityBaseUnit"`

	// Extended attributes; only some sources carry them.
	Owner          string `json:"EWMStockOwner" yaml:"EWMStockOwner"`
	Usage          string `json:"EWMStockUsage" yaml:"EWMStockUsage"`
	DisposingParty string `json:"EntitledToDisposeParty" yaml:"EntitledToDisposeParty"`
	Resource       string `json:"EWMResource" yaml:"EWMResource"`

	// Special stock references, passed through from file sources untouched
	// apart from trimming.
	DocumentCategory string `json:"StockDocumentCategory" yaml:"StockDocumentCategory"`
	WBSElement       string `json:"WBSElementInternalID" yaml:"WBSElementInternalID"`
	SalesOrder       string `json:"SpecialStockIdfgSalesOrder" yaml:"SpecialStockIdfgSalesOrder"`
	SalesOrderItem   string `json:"SpecialStockIdfgSalesOrderItem" yaml:"SpecialStockIdfgSalesOrderItem"`
}

// normalize trims every attribute, rounds the quantity to two decimals and
// assigns a composite id to records that arrived without one. The result is
// validated as a whole: any invalid record or duplicate id rejects the set.
func normalize(in []Record) ([]Record, error) {
	out := make([]Record, len(in))
	seen := make(map[string]int, len(in))

	for i, r := range in {
		r.ID = strings.TrimSpace(r.ID)
		r.Product = strings.TrimSpace(r.Product)
		r.Warehouse = strings.TrimSpace(r.Warehouse)
		r.StockType = strings.TrimSpace(r.StockType)
		r.Batch = strings.TrimSpace(r.Batch)
		r.HandlingUnit = strings.TrimSpace(r.HandlingUnit)
		r.StorageBin = strings.TrimSpace(r.StorageBin)
		r.QuantityUnit = strings.TrimSpace(r.QuantityUnit)
		r.Owner = strings.TrimSpace(r.Owner)
		r.Usage = strings.TrimSpace(r.Usage)
		r.DisposingParty = strings.TrimSpace(r.DisposingParty)
		r.Resource = strings.TrimSpace(r.Resource)
		r.DocumentCategory = strings.TrimSpace(r.DocumentCategory)
		r.WBSElement = strings.TrimSpace(r.WBSElement)
		r.SalesOrder = strings.TrimSpace(r.SalesOrder)
		r.SalesOrderItem = strings.TrimSpace(r.SalesOrderItem)
		r.Quantity = round2(r.Quantity)

		if r.ID == "" {
			r.ID = compositeID(r, i)
		}

		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if j, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q (first at %d)", i, r.ID, j)
		}
		seen[r.ID] = i
		out[i] = r
	}

	return out, nil
}

func compositeID(r Record, index int) string {
	return strings.Join([]string{
		r.Product,
		r.Warehouse,
		r.StorageBin,
		r.Batch,
		r.HandlingUnit,
		strconv.Itoa(index),
	}, "_")
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
