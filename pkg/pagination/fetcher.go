package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// PageSize is the fixed number of items requested per page.
const PageSize = 100

// Getter issues a single authenticated GET and returns the response body.
// Implemented by *client.Client.
type Getter interface {
	Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// GetterFunc adapts a function to the Getter interface.
type GetterFunc func(ctx context.Context, endpoint string, params url.Values) ([]byte, error)

// Get calls f.
func (f GetterFunc) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return f(ctx, endpoint, params)
}

// FetchAll accumulates every page of a collection endpoint into one slice.
// listField names the endpoint's result array ("users", "teams", ...);
// params carry any entity-scoping filters and are repeated verbatim on
// every page request. The first error aborts the fetch with no partial
// result.
func FetchAll(ctx context.Context, g Getter, endpoint, listField string, params url.Values) ([]json.RawMessage, error) {
	var items []json.RawMessage

	offset := 0
	pages := 0
	for {
		body, err := g.Get(ctx, endpoint, pageParams(params, offset))
		if err != nil {
			return nil, fmt.Errorf("fetch %s (offset %d): %w", endpoint, offset, err)
		}

		page, more, err := decodePage(body, listField)
		if err != nil {
			return nil, fmt.Errorf("decode %s (offset %d): %w", endpoint, offset, err)
		}

		items = append(items, page...)
		pages++

		if !more {
			break
		}
		offset += PageSize
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("pages", pages).
		Int("items", len(items)).
		Msg("Paged fetch complete")

	return items, nil
}

// pageParams copies the base params and applies limit/offset for one page.
// The first page carries no offset, matching what the API defaults to.
func pageParams(base url.Values, offset int) url.Values {
	q := url.Values{}
	for k, vs := range base {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("limit", strconv.Itoa(PageSize))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return q
}

// decodePage extracts one page's result list and continuation flag.
// A missing list field is a malformed response, never an empty page; a
// missing "more" flag ends the loop.
func decodePage(body []byte, listField string) ([]json.RawMessage, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false, fmt.Errorf("unmarshal envelope: %w", err)
	}

	rawList, ok := fields[listField]
	if !ok {
		return nil, false, fmt.Errorf("response missing %q list", listField)
	}

	var page []json.RawMessage
	if err := json.Unmarshal(rawList, &page); err != nil {
		return nil, false, fmt.Errorf("unmarshal %q list: %w", listField, err)
	}

	more := false
	if rawMore, ok := fields["more"]; ok {
		if err := json.Unmarshal(rawMore, &more); err != nil {
			return nil, false, fmt.Errorf("unmarshal continuation flag: %w", err)
		}
	}

	return page, more, nil
}

// Collect decodes every raw item into T, preserving order.
func Collect[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
