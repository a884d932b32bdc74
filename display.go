package lframe

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

const nullPrinter = "n/a"

// formatValue renders one value as a cell.
func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return nullPrinter
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return formatValue(float64(x))
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case Tuple, []interface{}:
		return formatLabel(x, "|")
	}
	return fmt.Sprint(v)
}

// labelLevels returns the number of label columns needed to render ix.
func labelLevels(ix Indexer) int {
	if mi, ok := ix.(*MultiIndex); ok {
		return mi.Width()
	}
	return 1
}

// labelHeaders returns one header per label column.
func labelHeaders(ix Indexer) []string {
	if mi, ok := ix.(*MultiIndex); ok {
		return mi.Names()
	}
	return []string{ix.Name()}
}

// labelCells returns the label columns of ix, one row per label.
// If sparse, repeated leading tuple components are blanked.
func labelCells(ix Indexer, sparse bool) [][]string {
	ret := make([][]string, ix.Len())
	if mi, ok := ix.(*MultiIndex); ok {
		tuples := mi.Tuples()
		if sparse {
			tuples = mi.SparseTuples()
		}
		for i, t := range tuples {
			ret[i] = make([]string, len(t))
			for l := range t {
				if t[l] != nil || !sparse {
					ret[i][l] = formatValue(t[l])
				}
			}
		}
		return ret
	}
	for i, l := range ix.Labels() {
		ret[i] = []string{formatValue(l)}
	}
	return ret
}

// ToCSV writes a DataFrame to a [][]string with rows as the major dimension.
// The first record holds the column labels (tuples joined by the level separator).
// Null values are replaced with "n/a".
// If `includeLabels` is true, the row labels are written first, one column per MultiIndex level,
// headed by the index name(s).
func (df *DataFrame) ToCSV(includeLabels bool) [][]string {
	return df.records(includeLabels, false)
}

func (df *DataFrame) records(includeLabels, sparse bool) [][]string {
	var header []string
	if includeLabels {
		header = append(header, labelHeaders(df.index)...)
	}
	for _, label := range df.vectors.Labels() {
		header = append(header, formatLabel(label, df.cfg.LevelSeparator))
	}
	ret := [][]string{header}
	var labels [][]string
	if includeLabels {
		labels = labelCells(df.index, sparse)
	}
	for i := 0; i < df.Len(); i++ {
		var row []string
		if includeLabels {
			row = append(row, labels[i]...)
		}
		for _, vec := range df.data {
			row = append(row, formatValue(vec.values.slice[i]))
		}
		ret = append(ret, row)
	}
	return ret
}

// String renders the DataFrame as an ASCII table.
// Rows beyond Config.MaxRows are elided from the middle.
func (df *DataFrame) String() string {
	var data [][]string
	if df.Len() <= df.cfg.MaxRows {
		data = df.records(true, true)
	} else {
		// truncate rows
		n := df.cfg.MaxRows / 2
		topHalf := df.Head(n).records(true, true)
		bottomHalf := df.Tail(n).records(true, true)[1:]
		filler := make([]string, labelLevels(df.index)+df.NumCols())
		for k := range filler {
			filler[k] = "..."
		}
		data = append(
			append(topHalf, filler),
			bottomHalf...)
	}
	return renderTable(data, df.cfg)
}

// String renders the Vector as an ASCII table of labels and values.
func (v *Vector) String() string {
	header := labelHeaders(v.index)
	name := ""
	if v.values.name != nil {
		name = formatLabel(v.values.name, v.cfg.LevelSeparator)
	}
	header = append(header, name)
	data := [][]string{header}
	labels := labelCells(v.index, true)
	for i, val := range v.values.slice {
		data = append(data, append(labels[i], formatValue(val)))
	}
	if len(data)-1 > v.cfg.MaxRows {
		n := v.cfg.MaxRows / 2
		filler := make([]string, len(header))
		for k := range filler {
			filler[k] = "..."
		}
		bottom := data[len(data)-n:]
		data = append(append(data[:n+1:n+1], filler), bottom...)
	}
	return renderTable(data, v.cfg)
}

func renderTable(data [][]string, cfg Config) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	// configure table
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoMergeCells(cfg.AutoMerge)
	// write headers and rows
	table.SetHeader(data[0])
	table.AppendBulk(data[1:])
	table.Render()
	return buf.String()
}
