package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecotrack/internal/engine"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{name: "zero value", params: Params{}},
		{name: "offset mode", params: Params{Limit: 10, Offset: 20}},
		{name: "page mode", params: Params{Page: 2, PageSize: 10}},
		{name: "negative limit", params: Params{Limit: -1}, wantErr: "limit cannot be negative"},
		{name: "negative offset", params: Params{Offset: -1}, wantErr: "offset cannot be negative"},
		{name: "negative page", params: Params{Page: -1}, wantErr: "page cannot be negative"},
		{name: "negative page-size", params: Params{PageSize: -1}, wantErr: "page-size cannot be negative"},
		{name: "mixed modes", params: Params{Page: 1, PageSize: 5, Offset: 10}, wantErr: "mutually exclusive"},
		{name: "page-size alone", params: Params{PageSize: 5}, wantErr: "page must be specified"},
		{name: "page alone", params: Params{Page: 2}, wantErr: "page-size must be specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name   string
		params Params
		want   []int
	}{
		{name: "disabled", params: Params{}, want: items},
		{name: "limit", params: Params{Limit: 3}, want: []int{1, 2, 3}},
		{name: "offset and limit", params: Params{Offset: 5, Limit: 3}, want: []int{6, 7}},
		{name: "offset past end", params: Params{Offset: 9}, want: []int{}},
		{name: "second page", params: Params{Page: 2, PageSize: 3}, want: []int{4, 5, 6}},
		{name: "page past end clamps", params: Params{Page: 9, PageSize: 3}, want: []int{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}

	assert.Empty(t, Apply(Params{Limit: 1}, []int{}))
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(Params{Page: 2, PageSize: 3}, 7)
	assert.Equal(t, Meta{CurrentPage: 2, PageSize: 3, TotalPages: 3, TotalItems: 7, HasPrevious: true, HasNext: true}, m)

	m = NewMeta(Params{Offset: 4, Limit: 2}, 5)
	assert.Equal(t, 3, m.CurrentPage)
	assert.Equal(t, 3, m.TotalPages)
	assert.False(t, m.HasNext)

	m = NewMeta(Params{}, 4)
	assert.Equal(t, 1, m.TotalPages)
	assert.False(t, m.HasPrevious)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in        string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{in: "", wantField: "", wantOrder: SortOrderDesc},
		{in: "kwh", wantField: "kwh", wantOrder: SortOrderDesc},
		{in: "key:ASC", wantField: "key", wantOrder: SortOrderAsc},
		{in: " percentage : desc ", wantField: "percentage", wantOrder: SortOrderDesc},
		{in: "kwh:up", wantErr: ErrInvalidSortOrder},
		{in: ":asc", wantErr: ErrEmptySortField},
		{in: "a:b:c", wantErr: ErrInvalidSortFormat},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, order, err := ParseSort(tt.in, SortOrderDesc)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestEntrySorter(t *testing.T) {
	entries := []engine.BreakdownEntry{
		{Key: "b", TotalKwh: 2, Percentage: 25},
		{Key: "a", TotalKwh: 2, Percentage: 25},
		{Key: "c", TotalKwh: 4, Percentage: 50},
	}
	s := NewEntrySorter()
	assert.Equal(t, []string{"key", "kwh", "percentage"}, s.GetValidFields())

	byKwh, err := s.Sort(entries, FieldKwh, SortOrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, keys(byKwh))

	byKwhAsc, err := s.Sort(entries, FieldKwh, SortOrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys(byKwhAsc))

	byKey, err := s.Sort(entries, FieldKey, SortOrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, keys(byKey))

	assert.Equal(t, "b", entries[0].Key, "input must not be reordered")

	_, err = s.Sort(entries, "watts", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortField)
}

func keys(entries []engine.BreakdownEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
