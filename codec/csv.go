package codec

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/serexlab/serex/value"
)

// CSV is decode-only: there is no general way to flatten an arbitrary
// value tree back into records.
var csvCodec = Codec{
	Name:   "csv",
	Decode: decodeCSV,
}

// decodeCSV turns each record into an array of scalars, and the whole
// input into an array of records.  Fields are typed by shape: empty is
// null, "true"/"false" are booleans, numeric fields become ints or
// floats, everything else stays a string.
func decodeCSV(input []byte) (value.Value, error) {
	reader := csv.NewReader(bytes.NewReader(input))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DecodeError{Format: "csv", Err: err}
	}
	rows := make(value.Array, len(records))
	for i, record := range records {
		row := make(value.Array, len(record))
		for j, field := range record {
			row[j] = csvField(field)
		}
		rows[i] = row
	}
	return rows, nil
}

func csvField(field string) value.Value {
	switch field {
	case "":
		return value.Null{}
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if !strings.ContainsAny(field, ".eE") {
		if n, err := strconv.ParseInt(field, 10, 64); err == nil {
			return value.Int(n)
		}
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return value.Float(f)
	}
	return value.String(field)
}
