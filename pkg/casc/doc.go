// Package casc is the HTTP transport for the wago.tools CASC file-delivery
// API. One logical fetch of a file ID may make several attempts under the
// hood: rate-limited and transiently failing requests back off linearly and
// retry, while definitive statuses surface immediately.
package casc
