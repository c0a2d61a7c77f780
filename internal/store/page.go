package store

const (
	DefaultPage  = 1
	DefaultLimit = 3
)

// Page selects a window of an id-ordered collection. Number is 1-based.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}
