// Package sqlite provides SQLite-backed local storage for drafts and the
// offline note cache, using the pure-Go modernc.org/sqlite driver.
package sqlite
