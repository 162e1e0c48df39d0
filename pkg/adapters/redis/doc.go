// Package redis provides Redis-backed session values and distributed locks.
//
// Store keeps each session's committed values as a JSON document with an optional TTL.
// Locker serializes interactions on one session across replicas.
package redis
