// Package fetcher fetches marketplace prices and records them.
//
// FetchOne requests one article's card, pulls the price out of the JSON payload with a
// JSONPath expression, converts it from minor units, and appends it to the price log.
// FetchPage does the same for a product page watched by regular expression.
//
// Prices in the log carry at least one fractional digit and no trailing zeros
// beyond that (150000 kopecks → "1500.0", 149999 → "1499.99").
package fetcher
