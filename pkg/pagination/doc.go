// Package pagination accumulates offset-paged PagerDuty collections.
//
// PagerDuty collection endpoints take limit/offset query parameters and
// answer with an envelope holding the result list (named per endpoint)
// plus a "more" continuation flag. This package implements the
// sequential accumulation loop shared by every lister:
//
//	raw, err := pagination.FetchAll(ctx, pdClient, "/users", "users", params)
//	users, err := pagination.Collect[pagerduty.User](raw)
//
// The fetcher:
//   - Requests pages of 100 items, raising the offset by 100 each round
//   - Appends each page's list in order until "more" is false
//   - Aborts the whole fetch on the first transport or decode error
//
// Order is preserved (page order, then intra-page order) so repeated
// exports against unchanged upstream state are byte-identical.
package pagination
