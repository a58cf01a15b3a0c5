// Package pricing runs the price A/B experiment.
//
// Every visitor is assigned one price from a fixed list on their first
// request; the choice is pinned with a cookie for 30 days. Clicks on the
// pricing call-to-action and completed conversions are counted per price in
// a single JSON document in the blob store.
package pricing
