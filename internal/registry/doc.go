// Package registry owns the in-memory map of loaded configs and
// orchestrates the compile pipeline: staleness check, validation, artifact
// generation, and reload. Accessors check freshness before every read and
// never fail toward the caller; a config that cannot be recompiled keeps
// serving its last good data. Per-config locking guarantees readers never
// observe a half-updated mapping and that only one in-flight compile per
// config ever writes the staleness record.
package registry
