// Package export reads platform CSV exports into typed raw rows
//
// Design choices:
// - Header cells are matched after folding, so case, spacing and a leading BOM do not matter
// - Unknown columns are ignored; a missing required column rejects the whole file
// - Records the CSV reader cannot parse are skipped and counted, never fatal
// - Line numbers count every data record, so they stay stable when records are skipped
package export
