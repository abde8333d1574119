// Package analytics derives summary statistics and chart payloads from a
// sequence of canonical expenses. Every function is pure: callers filter
// the sequence by date first and may memoize the results freely.
package analytics
