package repository

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
	// MaxPageNumber keeps Offset far from int overflow.
	MaxPageNumber = 100000
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into range, applying defaults to zero values.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// Pages returns how many pages of size p.Size hold total rows.
func (p Page) Pages(total int64) int {
	p = p.Normalize()
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
