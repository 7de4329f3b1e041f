package exporter

import (
	"io"

	"bikeshare/pkg/contracts/domain"
)

// DefaultPageSize is how many raw rows are shown per page.
const DefaultPageSize = 5

// Pager walks a table a page at a time. Each page is written as a small CSV
// document with its own header line.
type Pager struct {
	table *domain.Table
	size  int
	pos   int
}

// NewPager creates a pager over table. A size below one uses DefaultPageSize.
func NewPager(table *domain.Table, size int) *Pager {
	if size < 1 {
		size = DefaultPageSize
	}
	if table == nil {
		table = &domain.Table{}
	}
	return &Pager{table: table, size: size}
}

// Done reports whether every row has been written
func (p *Pager) Done() bool {
	return p.pos >= p.table.Len()
}

// Offset returns the index of the next row to be written
func (p *Pager) Offset() int {
	return p.pos
}

// Next writes the next page to w and returns the number of rows written.
// Once Done it writes nothing and returns 0.
func (p *Pager) Next(w io.Writer) (int, error) {
	if p.Done() {
		return 0, nil
	}

	end := p.pos + p.size
	if end > p.table.Len() {
		end = p.table.Len()
	}
	page := p.table.Records[p.pos:end]

	rw := NewRowWriter(w, p.table.Schema)
	if err := rw.WriteHeader(); err != nil {
		return 0, err
	}
	if err := rw.WriteRows(page); err != nil {
		return 0, err
	}
	if err := rw.Flush(); err != nil {
		return 0, err
	}

	p.pos = end
	return len(page), nil
}
