package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		token   string
		wantErr bool
	}{
		{"2024-01", false},
		{"2024-12", false},
		{"1999-06", false},
		{"2024-13", true},
		{"2024-00", true},
		{"2024", true},
		{"2024-1", true},
		{"01-2024", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, err := ParseMonth(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, m.String())
		})
	}
}

func TestMonthOf(t *testing.T) {
	m := MonthOf(time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, 2024, m.Year())
	assert.Equal(t, time.March, m.Month())
}

func TestMonth_Date(t *testing.T) {
	m := MustParseMonth("2024-02")
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), m.Date())
}

func TestMonth_NextPrev(t *testing.T) {
	t.Run("rolls over year boundaries", func(t *testing.T) {
		assert.Equal(t, MustParseMonth("2025-01"), MustParseMonth("2024-12").Next())
		assert.Equal(t, MustParseMonth("2023-12"), MustParseMonth("2024-01").Prev())
	})

	t.Run("mid-year", func(t *testing.T) {
		assert.Equal(t, MustParseMonth("2024-07"), MustParseMonth("2024-06").Next())
	})
}

func TestMonth_Ordering(t *testing.T) {
	jan := MustParseMonth("2024-01")
	feb := MustParseMonth("2024-02")
	dec23 := MustParseMonth("2023-12")

	assert.True(t, jan.Before(feb))
	assert.True(t, feb.After(jan))
	assert.True(t, dec23.Before(jan))
	assert.True(t, jan.Equal(MustParseMonth("2024-01")))
	assert.Equal(t, -1, jan.Compare(feb))
	assert.Equal(t, 1, feb.Compare(jan))
	assert.Equal(t, 0, jan.Compare(jan))
}

func TestMonthsBetween(t *testing.T) {
	t.Run("inclusive of both endpoints", func(t *testing.T) {
		months := MonthsBetween(MustParseMonth("2024-01"), MustParseMonth("2024-04"))
		require.Len(t, months, 4)
		assert.Equal(t, MustParseMonth("2024-01"), months[0])
		assert.Equal(t, MustParseMonth("2024-04"), months[3])
	})

	t.Run("single month when endpoints are equal", func(t *testing.T) {
		months := MonthsBetween(MustParseMonth("2024-03"), MustParseMonth("2024-03"))
		require.Len(t, months, 1)
	})

	t.Run("spans year boundaries", func(t *testing.T) {
		months := MonthsBetween(MustParseMonth("2023-11"), MustParseMonth("2024-02"))
		require.Len(t, months, 4)
		assert.Equal(t, MustParseMonth("2023-12"), months[1])
		assert.Equal(t, MustParseMonth("2024-01"), months[2])
	})

	t.Run("nil when from is after to", func(t *testing.T) {
		assert.Nil(t, MonthsBetween(MustParseMonth("2024-04"), MustParseMonth("2024-01")))
	})
}

func TestMonth_JSON(t *testing.T) {
	t.Run("serializes as the canonical token", func(t *testing.T) {
		data, err := json.Marshal(MustParseMonth("2024-02"))
		require.NoError(t, err)
		assert.Equal(t, `"2024-02"`, string(data))
	})

	t.Run("round-trips", func(t *testing.T) {
		var m Month
		require.NoError(t, json.Unmarshal([]byte(`"2024-02"`), &m))
		assert.Equal(t, MustParseMonth("2024-02"), m)
	})

	t.Run("works as a JSON object key", func(t *testing.T) {
		breakdown := map[Month]int{
			MustParseMonth("2024-01"): 25000,
			MustParseMonth("2024-02"): 30000,
		}
		data, err := json.Marshal(breakdown)
		require.NoError(t, err)
		assert.JSONEq(t, `{"2024-01":25000,"2024-02":30000}`, string(data))

		var decoded map[Month]int
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, breakdown, decoded)
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		var m Month
		assert.Error(t, json.Unmarshal([]byte(`"2024/02"`), &m))
	})
}

func TestMonthList(t *testing.T) {
	t.Run("contains", func(t *testing.T) {
		list := MonthList{MustParseMonth("2024-01"), MustParseMonth("2024-03")}
		assert.True(t, list.Contains(MustParseMonth("2024-01")))
		assert.False(t, list.Contains(MustParseMonth("2024-02")))
	})

	t.Run("tokens preserve order", func(t *testing.T) {
		list := MonthList{MustParseMonth("2024-03"), MustParseMonth("2024-01")}
		assert.Equal(t, []string{"2024-03", "2024-01"}, list.Tokens())
	})

	t.Run("parse rejects a malformed element", func(t *testing.T) {
		_, err := ParseMonthList([]string{"2024-01", "bogus"})
		assert.Error(t, err)
	})

	t.Run("scans its own stored value", func(t *testing.T) {
		list := MonthList{MustParseMonth("2024-01"), MustParseMonth("2024-02")}
		value, err := list.Value()
		require.NoError(t, err)

		var decoded MonthList
		require.NoError(t, decoded.Scan(value))
		assert.Equal(t, list, decoded)
	})

	t.Run("nil list stores as an empty array", func(t *testing.T) {
		var list MonthList
		value, err := list.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", value)
	})
}
