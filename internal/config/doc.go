// Package config provides configuration management for hiveingest.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file (--config, or hiveingest.yaml / configs/hiveingest.yaml)
//	3. Environment variables with the HIVE_ prefix
//
// Command line flags are applied by cmd/hiveingest after Load returns.
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	HIVE_SOURCE_PROFILE=colab
//	HIVE_SOURCE_DIR=/data/beehub
//	HIVE_SOURCE_BUCKET_URL=s3://hive-exports?region=eu-central-1
//	HIVE_SOURCE_MAX_FILES=5
//	HIVE_CLEANING_DROP_COLUMNS=windMin,windMax
//	HIVE_EXPORT_CSV_PATH=out/combined.csv
//	HIVE_LOGGING_LEVEL=debug
//
// # Profiles
//
// The source profile picks the default directory when none is configured:
// "local" reads ./sample_data and "colab" reads the Google Drive mount used
// in notebooks.
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags and
// returns every failing field in one error.
package config
