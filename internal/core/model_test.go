package core

import (
	"slices"
	"testing"
)

func TestCacheRecordIsFullyCached(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		posted []string
		listed []string
		want   bool
	}{
		{name: "equal sets", posted: []string{"a.jpg", "b.jpg"}, listed: []string{"b.jpg", "a.jpg"}, want: true},
		{name: "both empty", posted: []string{}, listed: nil, want: true},
		{name: "cache is strict superset", posted: []string{"a.jpg", "b.jpg", "c.jpg"}, listed: []string{"a.jpg", "b.jpg"}, want: false},
		{name: "cache is strict subset", posted: []string{"a.jpg"}, listed: []string{"a.jpg", "b.jpg"}, want: false},
		{name: "disjoint", posted: []string{"a.jpg"}, listed: []string{"b.jpg"}, want: false},
		{name: "duplicates in listing", posted: []string{"a.jpg"}, listed: []string{"a.jpg", "a.jpg"}, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := &CacheRecord{PeriodKey: "2023-cw5", PostedIDs: tt.posted}
			if got := record.IsFullyCached(tt.listed); got != tt.want {
				t.Fatalf("IsFullyCached() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheRecordAppendIsIdempotent(t *testing.T) {
	t.Parallel()

	record := NewCacheRecord("2023-März")
	record.Append("a.jpg")
	record.Append("b.jpg")
	record.Append("a.jpg")

	if want := []string{"a.jpg", "b.jpg"}; !slices.Equal(record.PostedIDs, want) {
		t.Fatalf("PostedIDs = %v, want %v", record.PostedIDs, want)
	}
	if !record.IsFullyCached([]string{"a.jpg", "b.jpg"}) {
		t.Fatal("IsFullyCached() = false after appending every listed id, want true")
	}
}

func TestPeriodKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		period Period
		want   string
	}{
		{Period{Type: RequestTypeWeek, Number: 5, Year: 2023}, "2023-cw5"},
		{Period{Type: RequestTypeWeek, Number: 52, Year: 2022}, "2022-cw52"},
		{Period{Type: RequestTypeMonth, Number: 3, Year: 2023}, "2023-März"},
		{Period{Type: RequestTypeMonth, Number: 12, Year: 2024}, "2024-Dezember"},
	}

	for _, tt := range tests {
		if got := tt.period.Key(); got != tt.want {
			t.Errorf("Key(%+v) = %q, want %q", tt.period, got, tt.want)
		}
	}
}

func TestContentPostComment(t *testing.T) {
	t.Parallel()

	post := ContentPost{Author: "Jane Doe", Title: "Sunset"}
	if got, want := post.Comment(), "*Jane Doe* Sunset"; got != want {
		t.Fatalf("Comment() = %q, want %q", got, want)
	}
}
