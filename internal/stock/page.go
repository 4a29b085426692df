package stock

import "fmt"

const (
	DefaultTop = 20
	MaxTop     = 100
)

type PageRequest struct {
	Skip int `validate:"gte=0"`
	Top  int `validate:"gte=1,lte=100"`
}

func DefaultPage() PageRequest {
	return PageRequest{Skip: 0, Top: DefaultTop}
}

// Validate rejects out-of-range values; they are never clamped.
func (p PageRequest) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}
	return nil
}

// Paginate returns up to top records starting at skip, plus the size of the
// whole input. skip and top must already be validated.
func Paginate(records []Record, skip, top int) ([]Record, int) {
	total := len(records)
	if skip >= total {
		return []Record{}, total
	}

	end := skip + top
	if end > total {
		end = total
	}
	return records[skip:end], total
}
