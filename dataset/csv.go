package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/KoheiTanaka/bago/pkg/errors"
)

// LoadCSV reads a headered CSV file into a Table, using the named column as
// the categorical target.
func LoadCSV(path, target string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset file")
	}
	defer file.Close()
	return ReadCSV(file, target)
}

// ReadCSV parses headered CSV data into a Table. Feature columns whose every
// value parses as a number stay numeric; any other column is treated as
// categorical and level-encoded with levels sorted lexicographically. The
// target column is always treated as categorical.
func ReadCSV(r io.Reader, target string) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV records")
	}
	if len(records) < 2 {
		return nil, errors.NewModelError("ReadCSV", "no data rows", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]
	n := len(rows)

	targetCol := -1
	for j, name := range header {
		if name == target {
			targetCol = j
			break
		}
	}
	if targetCol < 0 {
		return nil, errors.NewValidationError("target", "column not found in header", target)
	}

	featureNames := make([]string, 0, len(header)-1)
	featureCols := make([]int, 0, len(header)-1)
	for j, name := range header {
		if j != targetCol {
			featureNames = append(featureNames, name)
			featureCols = append(featureCols, j)
		}
	}
	if len(featureCols) == 0 {
		return nil, errors.NewValueError("ReadCSV", "no feature columns besides the target")
	}

	x, err := encodeColumns("ReadCSV", rows, featureCols)
	if err != nil {
		return nil, err
	}

	targetValues := make([]string, n)
	for i, row := range rows {
		if targetCol >= len(row) {
			return nil, errors.NewValueError("ReadCSV", "ragged row: fewer fields than header")
		}
		targetValues[i] = row[targetCol]
	}
	encoding := levelEncoding(targetValues)
	classes := make([]string, len(encoding))
	for level, idx := range encoding {
		classes[idx] = level
	}
	y := mat.NewVecDense(n, nil)
	for i, v := range targetValues {
		y.SetVec(i, float64(encoding[v]))
	}

	return NewTable(featureNames, x, y, classes)
}

// LoadFeatureCSV reads a headered CSV file holding feature columns only, the
// shape an inference dataset has. Returns the feature matrix and the column
// names in matrix order.
func LoadFeatureCSV(path string) (*mat.Dense, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening dataset file")
	}
	defer file.Close()
	return ReadFeatureCSV(file)
}

// ReadFeatureCSV parses headered CSV data where every column is a feature.
// Columns are encoded with the same rules as ReadCSV. Decoding predictions
// made on the result is the model's job: a fitted ensemble carries its own
// training-time class names.
func ReadFeatureCSV(r io.Reader) (*mat.Dense, []string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading CSV records")
	}
	if len(records) < 2 {
		return nil, nil, errors.NewModelError("ReadFeatureCSV", "no data rows", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]int, len(header))
	for j := range header {
		cols[j] = j
	}
	x, err := encodeColumns("ReadFeatureCSV", rows, cols)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(header))
	copy(names, header)
	return x, names, nil
}

// encodeColumns materializes the selected columns: a column whose every value
// parses as a number stays numeric, any other column is level-encoded.
func encodeColumns(op string, rows [][]string, cols []int) (*mat.Dense, error) {
	n := len(rows)
	x := mat.NewDense(n, len(cols), nil)
	for f, col := range cols {
		values := make([]string, n)
		numeric := true
		for i, row := range rows {
			if col >= len(row) {
				return nil, errors.NewValueError(op, "ragged row: fewer fields than header")
			}
			values[i] = row[col]
			if _, perr := strconv.ParseFloat(row[col], 64); perr != nil {
				numeric = false
			}
		}

		if numeric {
			for i, v := range values {
				parsed, _ := strconv.ParseFloat(v, 64)
				x.Set(i, f, parsed)
			}
			continue
		}

		encoding := levelEncoding(values)
		for i, v := range values {
			x.Set(i, f, float64(encoding[v]))
		}
	}
	return x, nil
}

// levelEncoding assigns each distinct value its index in lexicographic order.
func levelEncoding(values []string) map[string]int {
	distinct := make(map[string]struct{}, 4)
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	levels := make([]string, 0, len(distinct))
	for v := range distinct {
		levels = append(levels, v)
	}
	sort.Strings(levels)

	encoding := make(map[string]int, len(levels))
	for i, v := range levels {
		encoding[v] = i
	}
	return encoding
}
