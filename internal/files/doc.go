// Package files locates the workbooks an ingest run reads.
//
// A Source lists candidate files and opens them for reading. Two sources exist:
//
// LocalSource reads a directory on the local filesystem, which also covers a
// cloud drive that is mounted into the filesystem.
//
// BucketSource reads a gocloud.dev blob bucket (file://, s3://, gs://), so a
// cloud export can be ingested without mounting it.
//
// Select applies the run's selection rule to a listing: keep names with the
// configured extension, sort by name, and keep the first N.
//
// Example usage:
//
//	src := files.NewLocalSource("./sample_data")
//	listing, err := src.List(ctx)
//	if err != nil {
//	    return err
//	}
//	selected := files.Select(listing, ".xlsx", 5)
package files
