// Package fetcher orchestrates a bulk tile download run: it iterates an ID
// sequence, drives each ID through transport, name resolution, acceptance
// filtering and persistence, and accumulates outcome counters. A 404 or a
// rejected filename is a normal counted outcome; only a config-level
// problem (like an over-cap range) aborts a run.
package fetcher
