package stock

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

const DefaultGeneratorSize = 150

var (
	sampleProducts = []string{
		"MAT001", "MAT002", "MAT003", "MAT004", "MAT005",
		"PROD-A100", "PROD-A200", "PROD-B100", "PROD-B200", "PROD-C100",
		"RAW-001", "RAW-002", "RAW-003", "FG-001", "FG-002",
	}
	sampleWarehouses = []string{"WH01", "WH02", "WH03"}
	sampleStockTypes = []string{"F1", "F2", "F3", "S1", "S2"}
	sampleBins       = []string{
		"BIN-A01-01", "BIN-A01-02", "BIN-A02-01", "BIN-A02-02",
		"BIN-B01-01", "BIN-B01-02", "BIN-B02-01", "BIN-B02-02",
		"BIN-C01-01", "BIN-C01-02", "BIN-C02-01", "BIN-C02-02",
	}
	sampleUnits         = []string{"EA", "KG", "L", "PC", "BOX"}
	sampleBatches       = []string{"BATCH001", "BATCH002", "BATCH003", "", ""}
	sampleHandlingUnits = []string{"HU001", "HU002", "HU003", "", "", ""}
	sampleUsages        = []string{"1", "2", "3", ""}
)

// Generator builds a synthetic record set. The same Seed always yields the
// same records, ids included.
type Generator struct {
	Size int
	Seed int64
}

func NewGenerator(size int, seed int64) *Generator {
	if size <= 0 {
		size = DefaultGeneratorSize
	}
	return &Generator{Size: size, Seed: seed}
}

func (g *Generator) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.Seed))
	out := make([]Record, 0, g.Size)

	for i := 0; i < g.Size; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, fmt.Errorf("generate id: %w", err)
		}

		out = append(out, Record{
			ID:             id.String(),
			Product:        pick(rng, sampleProducts),
			Warehouse:      pick(rng, sampleWarehouses),
			StockType:      pick(rng, sampleStockTypes),
			Batch:          pick(rng, sampleBatches),
			HandlingUnit:   pick(rng, sampleHandlingUnits),
			StorageBin:     pick(rng, sampleBins),
			Quantity:       round2(10 + rng.Float64()*990),
			QuantityUnit:   pick(rng, sampleUnits),
			Owner:          fmt.Sprintf("OWNER%02d", 1+rng.Intn(5)),
			Usage:          pick(rng, sampleUsages),
			DisposingParty: fmt.Sprintf("PARTY%02d", 1+rng.Intn(3)),
			Resource:       fmt.Sprintf("RES%03d", 1+rng.Intn(10)),
		})
	}

	return out, nil
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}
