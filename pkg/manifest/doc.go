// Package manifest produces the ID sequences a run iterates over, either
// from an explicit numeric range or from an externally supplied
// "<id>;<path>" listing. Both collapse into one finite ordered sequence
// before any network activity starts.
package manifest
