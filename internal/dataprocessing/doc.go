// Package dataprocessing implements the ingestion-and-aggregation pipeline:
// mapping worksheet columns onto typed fields, extracting purchase-order
// records with batch-level inclusion filtering, and computing the aggregate
// metrics, rankings and year-over-year comparisons the dashboard serves.
//
// Aggregation functions are pure over the record sequence, which keeps every
// cached metric re-derivable and the whole layer property-testable.
package dataprocessing
