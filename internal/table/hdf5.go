package table

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// ReadHDF5 parses the root-level datasets of an HDF5 file into a table.
// 1-D float64 datasets become single columns; 2-D datasets contribute one
// column per dataset column, named "<dataset>_<j>". All datasets must share
// the same leading dimension, which becomes the row count. Anything else is
// an ingestion error for the file.
func ReadHDF5(path string) (*Table, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	nObj, err := f.NumObjects()
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	t := New()
	rows := -1
	for i := uint(0); i < nObj; i++ {
		name, err := f.ObjectNameByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("failed to name object %d: %w", i, err)
		}

		dset, err := f.OpenDataset(name)
		if err != nil {
			// Groups and non-dataset objects are skipped, not fatal.
			continue
		}

		cols, n, err := readDataset(dset, name)
		dset.Close()
		if err != nil {
			return nil, err
		}

		if rows == -1 {
			rows = n
		} else if rows != n {
			return nil, fmt.Errorf("dataset %q has %d rows, expected %d", name, n, rows)
		}

		for colName, vals := range cols {
			t.AddColumn(colName)
			for t.NumRows() < len(vals) {
				if err := t.AppendRow(nil); err != nil {
					return nil, err
				}
			}
			for r, v := range vals {
				t.SetCell(r, colName, Number(v))
			}
		}
	}

	if t.NumColumns() == 0 {
		return nil, fmt.Errorf("no datasets found in file")
	}
	return t, nil
}

// readDataset reads one float64 dataset into named columns.
func readDataset(dset *hdf5.Dataset, name string) (map[string][]float64, int, error) {
	space := dset.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read extent of %q: %w", name, err)
	}

	switch len(dims) {
	case 1:
		n := int(dims[0])
		data := make([]float64, n)
		if err := dset.Read(&data); err != nil {
			return nil, 0, fmt.Errorf("failed to read dataset %q: %w", name, err)
		}
		return map[string][]float64{name: data}, n, nil
	case 2:
		n, k := int(dims[0]), int(dims[1])
		data := make([]float64, n*k)
		if err := dset.Read(&data); err != nil {
			return nil, 0, fmt.Errorf("failed to read dataset %q: %w", name, err)
		}
		cols := make(map[string][]float64, k)
		for j := 0; j < k; j++ {
			vals := make([]float64, n)
			for r := 0; r < n; r++ {
				vals[r] = data[r*k+j]
			}
			cols[fmt.Sprintf("%s_%d", name, j)] = vals
		}
		return cols, n, nil
	default:
		return nil, 0, fmt.Errorf("dataset %q has unsupported rank %d", name, len(dims))
	}
}
