package listview

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     int
	Name   string
	Phone  *string
	Status string
	Queue  string
	Value  int
	At     time.Time
}

func str(s string) *string { return &s }

func ids(rows []row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func rowPipeline() *Pipeline[row] {
	return New[row]().
		Search(Field(func(r row) string { return r.Name }), Nullable(func(r row) *string { return r.Phone })).
		Categorical("status", func(r row) string { return r.Status }).
		Categorical("queue", func(r row) string { return r.Queue }).
		MultiSelect("state", func(r row) string { return r.Status }).
		SortBy(
			Numeric("value", func(r row) int { return r.Value }),
			Lexicographic("name", func(r row) string { return r.Name }),
			Chronological("at", func(r row) time.Time { return r.At }),
		)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	rows := []row{{ID: 1, Name: "Sarah Johnson"}, {ID: 2, Name: "Mike Chen"}}
	p := rowPipeline()

	upper := p.Apply(rows, Query{Search: "SARAH"})
	lower := p.Apply(rows, Query{Search: "sarah"})

	assert.Equal(t, []int{1}, ids(upper.Items))
	assert.Equal(t, ids(upper.Items), ids(lower.Items))
}

func TestSearchSkipsAbsentFields(t *testing.T) {
	rows := []row{
		{ID: 1, Name: "Alpha", Phone: str("+1-555-0101")},
		{ID: 2, Name: "Beta"},
	}
	p := rowPipeline()

	assert.Equal(t, []int{1}, ids(p.Apply(rows, Query{Search: "555"}).Items))
	assert.Empty(t, p.Apply(rows, Query{Search: "nil"}).Items)
	assert.Equal(t, []int{1, 2}, ids(p.Apply(rows, Query{Search: ""}).Items))
}

func TestSortToggle(t *testing.T) {
	rows := []row{{ID: 1, Value: 5}, {ID: 2, Value: 1}, {ID: 3, Value: 3}}
	p := rowPipeline()

	var s SortState
	s = s.Toggle("value")
	asc := p.Apply(rows, Query{Sort: s})
	assert.Equal(t, []int{2, 3, 1}, ids(asc.Items))
	assert.Equal(t, SortState{Field: "value", Order: Asc}, asc.Sort)

	s = s.Toggle("value")
	desc := p.Apply(rows, Query{Sort: s})
	assert.Equal(t, []int{1, 3, 2}, ids(desc.Items))

	s = s.Toggle("name")
	assert.Equal(t, SortState{Field: "name", Order: Asc}, s)
}

func TestSortIsStable(t *testing.T) {
	rows := []row{
		{ID: 1, Value: 2}, {ID: 2, Value: 1}, {ID: 3, Value: 2}, {ID: 4, Value: 1},
	}
	p := rowPipeline()

	asc := p.Apply(rows, Query{Sort: SortState{Field: "value"}})
	assert.Equal(t, []int{2, 4, 1, 3}, ids(asc.Items))

	desc := p.Apply(rows, Query{Sort: SortState{Field: "value", Order: Desc}})
	assert.Equal(t, []int{1, 3, 2, 4}, ids(desc.Items))
}

func TestChronologicalAndDefaultSort(t *testing.T) {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	rows := []row{
		{ID: 1, At: base.Add(time.Hour)},
		{ID: 2, At: base},
		{ID: 3, At: base.Add(2 * time.Hour)},
	}
	p := rowPipeline().DefaultSort(SortState{Field: "at", Order: Desc})

	res := p.Apply(rows, Query{})
	assert.Equal(t, []int{3, 1, 2}, ids(res.Items))
	assert.Equal(t, "at", res.Sort.Field)
}

func TestUnknownSortFieldKeepsOrder(t *testing.T) {
	rows := []row{{ID: 3}, {ID: 1}, {ID: 2}}
	res := rowPipeline().Apply(rows, Query{Sort: SortState{Field: "bogus"}})
	assert.Equal(t, []int{3, 1, 2}, ids(res.Items))
	assert.Equal(t, SortState{}, res.Sort)
}

func TestCategoricalFiltersCombine(t *testing.T) {
	rows := []row{
		{ID: 1, Status: "completed", Queue: "A"},
		{ID: 2, Status: "completed", Queue: "B"},
		{ID: 3, Status: "missed", Queue: "A"},
	}
	p := rowPipeline()

	res := p.Apply(rows, Query{Filters: map[string][]string{
		"status": {"completed"},
		"queue":  {"A"},
	}})
	assert.Equal(t, []int{1}, ids(res.Items))

	res = p.Apply(rows, Query{Filters: map[string][]string{
		"status": {All},
		"queue":  {"A"},
	}})
	assert.Equal(t, []int{1, 3}, ids(res.Items))
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Filtered)
}

func TestMultiSelectPreservesOrder(t *testing.T) {
	rows := []row{
		{ID: 1, Status: "online"},
		{ID: 2, Status: "busy"},
		{ID: 3, Status: "Online"},
		{ID: 4, Status: "away"},
	}
	p := rowPipeline()

	res := p.Apply(rows, Query{Filters: map[string][]string{"state": {"online"}}})
	assert.Equal(t, []int{1, 3}, ids(res.Items))

	res = p.Apply(rows, Query{Filters: map[string][]string{"state": {"away", "busy"}}})
	assert.Equal(t, []int{2, 4}, ids(res.Items))

	res = p.Apply(rows, Query{Filters: map[string][]string{"state": {}}})
	assert.Len(t, res.Items, 4)

	res = p.Apply(rows, Query{Filters: map[string][]string{"state": {All}}})
	assert.Equal(t, []int{1, 2, 3, 4}, ids(res.Items))

	res = p.Apply(rows, Query{Filters: map[string][]string{"state": {"busy", "ALL"}}})
	assert.Len(t, res.Items, 4)
}

func TestUnknownFilterDimensionIgnored(t *testing.T) {
	rows := []row{{ID: 1}, {ID: 2}}
	res := rowPipeline().Apply(rows, Query{Filters: map[string][]string{"color": {"red"}}})
	assert.Len(t, res.Items, 2)
}

func TestApplyIsIdempotentAndPure(t *testing.T) {
	rows := []row{
		{ID: 1, Name: "b", Value: 3, Status: "online"},
		{ID: 2, Name: "a", Value: 1, Status: "busy"},
		{ID: 3, Name: "ab", Value: 2, Status: "online"},
	}
	q := Query{
		Search:  "a",
		Filters: map[string][]string{"state": {"online", "busy"}},
		Sort:    SortState{Field: "value", Order: Desc},
	}
	p := rowPipeline()

	first := p.Apply(rows, q)
	second := p.Apply(rows, q)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{1, 2, 3}, ids(rows))
}

func TestPagination(t *testing.T) {
	var rows []row
	for i := 1; i <= 7; i++ {
		rows = append(rows, row{ID: i})
	}
	p := rowPipeline()

	res := p.Apply(rows, Query{Page: 2, PageSize: 3})
	assert.Equal(t, []int{4, 5, 6}, ids(res.Items))
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.Page)

	res = p.Apply(rows, Query{Page: 9, PageSize: 3})
	assert.Equal(t, []int{7}, ids(res.Items))
	assert.Equal(t, 3, res.Page)

	res = p.Apply(rows, Query{})
	assert.Len(t, res.Items, 7)
	assert.Equal(t, 1, res.Pages)

	res = p.Apply(nil, Query{PageSize: 10})
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Pages)
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	first := s.Next()
	assert.True(t, s.Current(first))

	second := s.Next()
	assert.False(t, s.Current(first))
	assert.True(t, s.Current(second))
}

func TestParseQuery(t *testing.T) {
	v := url.Values{}
	v.Set("q", "Sarah")
	v.Set("sort", "timestamp")
	v.Set("order", "DESC")
	v.Set("page", "2")
	v.Set("pageSize", "25")
	v.Add("status", "online,busy")
	v.Add("status", "away")
	v.Set("queue", "")

	q, err := ParseQuery(v)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", q.Search)
	assert.Equal(t, SortState{Field: "timestamp", Order: Desc}, q.Sort)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 25, q.PageSize)
	assert.Equal(t, map[string][]string{"status": {"online", "busy", "away"}}, q.Filters)
}

func TestParseQueryRejectsBadValues(t *testing.T) {
	for _, v := range []url.Values{
		{"order": {"sideways"}},
		{"page": {"two"}},
		{"pageSize": {"-1"}},
	} {
		_, err := ParseQuery(v)
		assert.Error(t, err, v.Encode())
	}
}
