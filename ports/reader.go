package ports

import (
	"statkit/domain/core"
)

// GroupData is one labeled column of observations read from a data source
type GroupData struct {
	Label  core.GroupLabel
	Values []float64
}

// DatasetReaderPort loads grouped numeric data from an external source.
// One column per group, header row as labels; non-numeric cells are skipped.
type DatasetReaderPort interface {
	ReadGroups(path string) ([]GroupData, error)
}
