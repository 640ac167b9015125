package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

// pagedGetter serves a fixed item list sliced by limit/offset, the way
// PagerDuty collection endpoints behave.
func pagedGetter(t *testing.T, listField string, total int) Getter {
	t.Helper()

	return GetterFunc(func(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
		limit, err := strconv.Atoi(params.Get("limit"))
		if err != nil {
			t.Fatalf("missing limit param: %v", err)
		}
		offset := 0
		if v := params.Get("offset"); v != "" {
			offset, _ = strconv.Atoi(v)
		}

		end := offset + limit
		if end > total {
			end = total
		}
		items := make([]string, 0, end-offset)
		for i := offset; i < end; i++ {
			items = append(items, fmt.Sprintf(`{"id": "ITEM%d"}`, i))
		}

		body := fmt.Sprintf(`{"%s": [%s], "more": %t, "limit": %d, "offset": %d}`,
			listField, strings.Join(items, ","), end < total, limit, offset)
		return []byte(body), nil
	})
}

func TestFetchAll_SinglePage(t *testing.T) {
	items, err := FetchAll(context.Background(), pagedGetter(t, "users", 3), "/users", "users", nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(items))
	}
}

func TestFetchAll_TwoPages(t *testing.T) {
	// Page 1: 100 items, more=true. Page 2: 1 item, more=false.
	items, err := FetchAll(context.Background(), pagedGetter(t, "users", 101), "/users", "users", nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(items) != 101 {
		t.Errorf("len(items) = %d, want 101", len(items))
	}

	// Upstream order must be preserved across the page boundary.
	var first, boundary, last struct {
		ID string `json:"id"`
	}
	json.Unmarshal(items[0], &first)
	json.Unmarshal(items[100], &last)
	json.Unmarshal(items[99], &boundary)
	if first.ID != "ITEM0" || boundary.ID != "ITEM99" || last.ID != "ITEM100" {
		t.Errorf("order not preserved: got %s, %s, %s", first.ID, boundary.ID, last.ID)
	}
}

func TestFetchAll_OffsetProgression(t *testing.T) {
	var offsets []string
	g := GetterFunc(func(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
		offsets = append(offsets, params.Get("offset"))
		more := len(offsets) < 3
		return []byte(fmt.Sprintf(`{"teams": [{"id": "T"}], "more": %t}`, more)), nil
	})

	if _, err := FetchAll(context.Background(), g, "/teams", "teams", nil); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	want := []string{"", "100", "200"}
	if len(offsets) != len(want) {
		t.Fatalf("requests = %d, want %d", len(offsets), len(want))
	}
	for i, o := range want {
		if offsets[i] != o {
			t.Errorf("request %d offset = %q, want %q", i, offsets[i], o)
		}
	}
}

func TestFetchAll_BaseParamsRepeated(t *testing.T) {
	var calls []url.Values
	g := GetterFunc(func(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
		calls = append(calls, params)
		more := len(calls) < 2
		return []byte(fmt.Sprintf(`{"schedules": [], "more": %t}`, more)), nil
	})

	base := url.Values{}
	base.Add("team_ids[]", "TEAM1")
	base.Add("team_ids[]", "TEAM2")

	if _, err := FetchAll(context.Background(), g, "/schedules", "schedules", base); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	for i, call := range calls {
		got := call["team_ids[]"]
		if len(got) != 2 || got[0] != "TEAM1" || got[1] != "TEAM2" {
			t.Errorf("request %d team_ids[] = %v, want [TEAM1 TEAM2]", i, got)
		}
		if call.Get("limit") != "100" {
			t.Errorf("request %d limit = %q, want 100", i, call.Get("limit"))
		}
	}

	// The caller's params must not be mutated by paging.
	if len(base) != 1 {
		t.Errorf("base params mutated: %v", base)
	}
}

func TestFetchAll_EmptyCollection(t *testing.T) {
	items, err := FetchAll(context.Background(), pagedGetter(t, "services", 0), "/services", "services", nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestFetchAll_ErrorAbortsFetch(t *testing.T) {
	calls := 0
	g := GetterFunc(func(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
		calls++
		if calls == 2 {
			return nil, fmt.Errorf("status 500")
		}
		return []byte(`{"users": [{"id": "U1"}], "more": true}`), nil
	})

	items, err := FetchAll(context.Background(), g, "/users", "users", nil)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if items != nil {
		t.Errorf("Expected no partial result, got %d items", len(items))
	}
}

func TestFetchAll_MissingListFieldIsError(t *testing.T) {
	g := GetterFunc(func(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
		return []byte(`{"more": false}`), nil
	})

	_, err := FetchAll(context.Background(), g, "/users", "users", nil)
	if err == nil {
		t.Fatal("Expected error for missing list field, got nil")
	}
	if !strings.Contains(err.Error(), `missing "users" list`) {
		t.Errorf("Error = %v, want missing-list error", err)
	}
}

func TestFetchAll_MissingMoreEndsLoop(t *testing.T) {
	calls := 0
	g := GetterFunc(func(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
		calls++
		return []byte(`{"users": [{"id": "U1"}]}`), nil
	})

	items, err := FetchAll(context.Background(), g, "/users", "users", nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("requests = %d, want 1", calls)
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
}

func TestCollect(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	raw := []json.RawMessage{
		json.RawMessage(`{"id": "A", "name": "first"}`),
		json.RawMessage(`{"id": "B", "name": "second"}`),
	}

	items, err := Collect[item](raw)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != "A" || items[1].Name != "second" {
		t.Errorf("Collect() = %+v, order or fields wrong", items)
	}
}

func TestCollect_DecodeError(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}

	raw := []json.RawMessage{
		json.RawMessage(`{"id": "A"}`),
		json.RawMessage(`not json`),
	}

	if _, err := Collect[item](raw); err == nil {
		t.Fatal("Expected decode error, got nil")
	}
}
