// Package store provides a SQLite-backed catalog of converted irrep tables.
//
// The catalog keeps immutable table versions:
//   - Batches: one row per import, ordered by a logical seq
//   - Tables: the user-format text of a table, zstd-compressed, with its
//     space group, spinor flag and summary counts
//
// # Identity and Integrity
//
//   - A version is addressed by SHA-256 over DomainTable, a 0x00 separator
//     and the NFC-normalized text. Writing identical text twice is a no-op.
//   - A 64-bit HighwayHash of the uncompressed text is stored next to the
//     body and verified on every read.
//   - Ordering uses seq INTEGER (logical clock), never timestamps; the
//     latest version of a table is the one with the highest seq.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
