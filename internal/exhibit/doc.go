// Package exhibit extracts exhibit links from a filing's root page and
// resolves the concrete document URL on each exhibit page.
//
// The scanner's marker-phrase lookahead is intentionally heuristic: it
// inspects a bounded window of document nodes after each anchor and stops
// at the next anchor. A marker that appears outside the window, or after
// an intervening anchor, is not detected. That precision/recall trade-off
// matches how the filing host lays out its exhibit tables and must not be
// "fixed" by widening the search.
package exhibit
