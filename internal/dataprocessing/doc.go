// Package dataprocessing turns BeeHUB workbook exports into a combined hive table.
//
// # Steps
//
//  1. Parser: reads the first worksheet of an xlsx file into a domain.Table
//  2. Cleaner: renames and parses the timestamp, drops unused sensor columns,
//     tags the device and derives calendar fields
//  3. Concat: stacks cleaned tables in file order
//  4. ScanSentinel / ReplaceSentinel: find and clear the -2137 sensor fault code
//  5. Summarizer: per-column statistics of the final table
//
// # Usage
//
//	table, err := dataprocessing.ParseFile("sample_data/hiveA.xlsx")
//	if err != nil {
//	    return err
//	}
//	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig())
//	if _, err := cleaner.Clean(table, "hiveA"); err != nil {
//	    return err
//	}
//	report, _ := dataprocessing.ScanSentinel(table, -2137)
//
// # Missing values
//
// Empty cells, unparseable timestamps and replaced sentinel values are all
// domain.Missing(), never zero.
package dataprocessing
