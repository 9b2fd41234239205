package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateExcelFile(t *testing.T) {
	data, err := CreateExcelFile([]Sheet{{
		Name:    "Benchmark",
		Headers: []string{"Parameter", "Company"},
		Rows:    [][]string{{"Share", "25%"}, {"Volume", "1,000"}},
	}}, [][2]string{{"Rows", "2"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Benchmark", "Info"}, f.GetSheetList())

	rows, err := f.GetRows("Benchmark")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Parameter", "Company"}, rows[0])
	assert.Equal(t, "25%", rows[1][1])
	assert.Equal(t, "1000", rows[2][1])

	info, err := f.GetRows("Info")
	require.NoError(t, err)
	assert.Equal(t, "Rows", info[1][0])
}

func TestCreateExcelFileNeedsSheets(t *testing.T) {
	_, err := CreateExcelFile(nil, nil)
	assert.Error(t, err)
}

func TestCreateCSV(t *testing.T) {
	data, err := CreateCSV([]string{"a", "b"}, [][]string{{"1", "x,y"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n", string(data))
}
