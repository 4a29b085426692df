package stock

import "context"

// Source produces the full record set. It is called once at startup.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}
