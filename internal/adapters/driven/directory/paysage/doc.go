// Package paysage provides an institution directory adapter for the
// Paysage API.
//
// Structures are searched through the autocomplete endpoint and relations
// through the relations endpoint. Requests are rate limited, and transient
// failures (429, 5xx, transport errors) are retried with backoff.
package paysage
