package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureUnmarshal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Measure
	}{
		{"number", `12.5`, MeasureOf(12.5)},
		{"integer", `100`, MeasureOf(100)},
		{"quoted number", `"42.75"`, MeasureOf(42.75)},
		{"quoted with spaces", `"  7 "`, MeasureOf(7)},
		{"null", `null`, Measure{}},
		{"empty string", `""`, Measure{}},
		{"garbage", `"abc"`, Measure{}},
		{"partial number", `"12kg"`, Measure{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Measure
			require.NoError(t, json.Unmarshal([]byte(tc.input), &m))
			assert.Equal(t, tc.want, m)
		})
	}
}

func TestMeasureMarshal(t *testing.T) {
	b, err := json.Marshal(MeasureOf(12.5))
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(b))

	b, err = json.Marshal(Measure{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestMeasureRoundTripThroughLineItem(t *testing.T) {
	in := `{"particulars":"Silo 1","qty_ltr":"250","kg_fat":9.75,"clr":""}`
	var it LineItem
	require.NoError(t, json.Unmarshal([]byte(in), &it))

	assert.Equal(t, "Silo 1", it.Particulars)
	assert.Equal(t, MeasureOf(250), it.QtyLtr)
	assert.Equal(t, MeasureOf(9.75), it.KgFat)
	assert.False(t, it.CLR.Valid)
}

func TestSplitBySection(t *testing.T) {
	items := []LineItem{
		{Particulars: "a", Section: SectionTankerTransaction},
		{Particulars: "b", Section: SectionOpeningStock},
		{Particulars: "c", Section: SectionOpeningStock},
		{Particulars: "d", Section: SectionOwnProcurement},
	}
	opening, tanker, procurement := SplitBySection(items)
	require.Len(t, opening, 2)
	assert.Equal(t, "b", opening[0].Particulars)
	assert.Equal(t, "c", opening[1].Particulars)
	require.Len(t, tanker, 1)
	assert.Equal(t, "a", tanker[0].Particulars)
	require.Len(t, procurement, 1)
}

func TestParseCategory(t *testing.T) {
	cat, ok := ParseCategory("silo-closing-balance")
	require.True(t, ok)
	assert.Equal(t, CategorySiloClosingBalance, cat)
	assert.False(t, cat.HasSections())

	opening, ok := ParseCategory("opening-stock")
	require.True(t, ok)
	assert.True(t, opening.HasSections())

	_, ok = ParseCategory("daily-reports")
	assert.False(t, ok)
}
