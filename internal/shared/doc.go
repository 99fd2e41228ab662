// Package shared holds code used across hiveingest packages that belongs to no
// single pipeline step.
//
// The testutil subpackage provides a buffering slog handler with assertions and
// builders for BeeHUB-style hive workbooks, so package tests can create real
// xlsx fixtures in a temporary directory:
//
//	dir := t.TempDir()
//	testutil.WriteHiveWorkbook(t, dir, "hiveA.xlsx",
//	    testutil.HiveRow(testutil.HiveTimestamp(3, 6, 2024, 14, 25, 9), 31.5, 60, 48.2))
package shared
