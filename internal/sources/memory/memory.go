// Package memory provides a Loader over records held in memory.
package memory

import (
	"context"

	"purchases/internal/core"
	"purchases/internal/sources"
)

var _ sources.Loader = (*Loader)(nil)

type Loader struct {
	name    string
	records []core.PurchaseRecord
	err     error
}

func New(name string, records ...core.PurchaseRecord) *Loader {
	return &Loader{name: name, records: append([]core.PurchaseRecord(nil), records...)}
}

// Failing returns a loader whose Load always fails with err.
func Failing(name string, err error) *Loader {
	return &Loader{name: name, err: err}
}

func (l *Loader) Name() string {
	return l.name
}

// Load returns a copy of the records.
func (l *Loader) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.err != nil {
		return nil, l.err
	}
	return append([]core.PurchaseRecord(nil), l.records...), nil
}
