package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMangleHeaders(t *testing.T) {
	tbl := New([]string{"판매", "판매", "", "매출"}, [][]string{
		{"1", "2", "3", "4"},
	})

	assert.Equal(t, []string{"판매", "판매_2", "unnamed_2", "매출"}, tbl.Header())
	assert.True(t, PlaceholderName("unnamed_2"))
	assert.False(t, PlaceholderName("매출"))
}

func TestNewPadsRaggedRows(t *testing.T) {
	tbl := New([]string{"a", "b", "c"}, [][]string{
		{"1"},
		{"1", "2", "3"},
	})

	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "", tbl.Col("b").Values[0])
	assert.Equal(t, "3", tbl.Col("c").Values[1])
}

func TestSelectMissingColumn(t *testing.T) {
	tbl := New([]string{"a", "b"}, [][]string{{"1", "2"}})

	err := tbl.Select([]string{"a", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestDropEmptyRowsAndColumns(t *testing.T) {
	tbl := New([]string{"a", "b", "c"}, [][]string{
		{"1", "", ""},
		{"", "", ""},
		{"2", "", ""},
	})

	tbl.DropEmptyRows()
	tbl.DropEmptyColumns()

	assert.Equal(t, []string{"a"}, tbl.Header())
	assert.Equal(t, []string{"1", "2"}, tbl.Col("a").Values)
}

func TestDropConstantColumns(t *testing.T) {
	tbl := New([]string{"varied", "constant", "sparse"}, [][]string{
		{"1", "x", "y"},
		{"2", "x", ""},
		{"3", "x", "y"},
	})

	tbl.DropConstantColumns()

	// "sparse" has one distinct non-null value, same as "constant"
	assert.Equal(t, []string{"varied"}, tbl.Header())
}

func TestDropDuplicateColumnsFirstWins(t *testing.T) {
	tbl := New([]string{"총매출", "실매출", "수량"}, [][]string{
		{"100", "100", "1"},
		{"250", "250", "2"},
	})

	tbl.DropDuplicateColumns()

	assert.Equal(t, []string{"총매출", "수량"}, tbl.Header())
}

func TestForwardFillSkipsPlaceholderColumns(t *testing.T) {
	tbl := New([]string{"매출 일시", ""}, [][]string{
		{"2024-03-01 12:00:00", "a"},
		{"", ""},
		{"2024-03-01 13:00:00", "b"},
	})

	tbl.ForwardFill()

	assert.Equal(t, "2024-03-01 12:00:00", tbl.Col("매출 일시").Values[1])
	// placeholder column keeps its null
	assert.Equal(t, "", tbl.Cols[1].Values[1])
}

func TestCoalesceFirstNonNullWins(t *testing.T) {
	tbl := New([]string{"a", "b", "keep"}, [][]string{
		{"1", "9", "x"},
		{"", "2", "y"},
		{"", "", "z"},
	})

	tbl.Coalesce("merged", []string{"a", "b"})

	require.Equal(t, []string{"keep", "merged"}, tbl.Header())
	assert.Equal(t, []string{"1", "2", ""}, tbl.Col("merged").Values)
}

func TestColumnsWhereValueContains(t *testing.T) {
	tbl := New([]string{"x", "y", "z"}, [][]string{
		{"단가", "수량", "data"},
		{"100", "2", "data"},
	})

	assert.Equal(t, []string{"x"}, tbl.ColumnsWhereValueContains("단가"))
	assert.Empty(t, tbl.ColumnsWhereValueContains("원가"))
}

func TestDropHeaderEchoColumns(t *testing.T) {
	tbl := New([]string{"매출 일시", "합계"}, [][]string{
		{"2024-03-01 12:00:00", "매출 일시"},
		{"2024-03-01 13:00:00", "900"},
	})

	tbl.DropHeaderEchoColumns()

	assert.Equal(t, []string{"매출 일시"}, tbl.Header())
}

func TestPromoteFirstRowHeaders(t *testing.T) {
	tbl := New([]string{"매출 일시", "", ""}, [][]string{
		{"", "단가", "수량"},
		{"2024-03-01 12:00:00", "4500", "2"},
		{"2024-03-01 13:00:00", "3000", "1"},
	})

	tbl.PromoteFirstRowHeaders()

	assert.Equal(t, []string{"매출 일시", "단가", "수량"}, tbl.Header())
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "4500", tbl.Col("단가").Values[0])
}
