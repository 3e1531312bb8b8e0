package resource

import (
	"errors"
	"net/url"
	"testing"
)

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: i + 1, Payload: map[string]any{"n": float64(i + 1)}}
	}
	return items
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		page, limit int
		wantLen     int
		wantFirstID int
		wantPages   int
	}{
		{"first page of 45", 45, 1, 20, 20, 1, 3},
		{"second page of 45", 45, 2, 20, 20, 21, 3},
		{"last partial page of 45", 45, 3, 20, 5, 41, 3},
		{"page beyond end", 45, 4, 20, 0, 0, 3},
		{"page zero", 45, 0, 20, 0, 0, 3},
		{"negative page", 45, -1, 20, 0, 0, 3},
		{"empty collection", 0, 1, 20, 0, 0, 0},
		{"exact multiple", 40, 2, 20, 20, 21, 2},
		{"limit one", 3, 2, 1, 1, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, meta := Paginate(makeItems(tt.total), tt.page, tt.limit)

			if len(page) != tt.wantLen {
				t.Errorf("len(page) = %d, want %d", len(page), tt.wantLen)
			}
			if tt.wantLen > 0 && page[0].ID != tt.wantFirstID {
				t.Errorf("first id = %d, want %d", page[0].ID, tt.wantFirstID)
			}
			if meta.TotalPages != tt.wantPages {
				t.Errorf("total_pages = %d, want %d", meta.TotalPages, tt.wantPages)
			}
			if meta.TotalItems != tt.total {
				t.Errorf("total_items = %d, want %d", meta.TotalItems, tt.total)
			}
			if meta.CurrentPage != tt.page {
				t.Errorf("current_page = %d, want %d", meta.CurrentPage, tt.page)
			}
		})
	}
}

func TestPaginateClampsNonPositiveLimit(t *testing.T) {
	page, meta := Paginate(makeItems(3), 1, 0)
	if len(page) != 1 {
		t.Errorf("limit 0 should clamp to 1, got %d items", len(page))
	}
	if meta.PerPage != 1 {
		t.Errorf("per_page = %d, want 1", meta.PerPage)
	}
	if meta.TotalPages != 3 {
		t.Errorf("total_pages = %d, want 3", meta.TotalPages)
	}

	page, _ = Paginate(makeItems(3), 2, -5)
	if len(page) != 1 || page[0].ID != 2 {
		t.Errorf("negative limit should clamp to 1, got %v", page)
	}
}

func TestParsePageQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", 1, 20, false},
		{"explicit values", "page=3&limit=10", 3, 10, false},
		{"page only", "page=2", 2, 20, false},
		{"limit only", "limit=5", 1, 5, false},
		{"negative values parse", "page=-1&limit=-2", -1, -2, false},
		{"non-integer page", "page=abc", 0, 0, true},
		{"non-integer limit", "limit=ten", 0, 0, true},
		{"float page", "page=1.5", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			page, limit, err := ParsePageQuery(q)

			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	items := makeItems(2)
	_, meta := Paginate(items, 1, 20)
	p := NewPage(items, meta)

	if len(p.Data) != 2 {
		t.Fatalf("len(data) = %d, want 2", len(p.Data))
	}
	if p.Data[0]["id"] != 1 || p.Data[1]["id"] != 2 {
		t.Errorf("ids not merged into page data: %v", p.Data)
	}
	if p.Meta.TotalItems != 2 {
		t.Errorf("meta.total_items = %d, want 2", p.Meta.TotalItems)
	}
}

func TestNewPageEmpty(t *testing.T) {
	p := NewPage(nil, PageMeta{PerPage: 20, CurrentPage: 1})
	if p.Data == nil {
		t.Error("data must be an empty slice, not nil, so it encodes as []")
	}
}
