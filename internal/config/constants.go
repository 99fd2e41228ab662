package config

// Application constants for the hive ingest tool
const (
	AppName   = "hiveingest"
	EnvPrefix = "HIVE"

	// Source profiles. The colab profile points at the Google Drive mount used in notebooks.
	ProfileLocal = "local"
	ProfileColab = "colab"

	DefaultLocalDir = "./sample_data"
	DefaultColabDir = "/content/drive/MyDrive/Colab/dane_z_uli"

	DefaultExtension = ".xlsx"
	DefaultMaxFiles  = 5

	// BeeHUB exports carry the reading time in this column, formatted as "DD.MM.YYYY, HH:MM:SS".
	// Unpadded fields parse too: "3.6.2024, 8:5:9" is accepted alongside "03.06.2024, 08:05:09".
	DefaultTimestampColumn = "Time (UTC+0)"
	DefaultDateColumn      = "Date"
	DefaultDateLayout      = "2.1.2006, 15:4:5"

	// DefaultSentinel is the code the hive hardware writes instead of a reading when a sensor fails
	DefaultSentinel = -2137

	DefaultPreviewRows   = 5
	DefaultSQLiteTable   = "hive_readings"
	DefaultParquetSchema = "hive_readings"

	DefaultLogFile = "logs/hiveingest.log"
)

// DefaultDropColumns are sensor columns that carry no information for hive analysis
var DefaultDropColumns = []string{
	"rainfallOp", "windForce", "windMin", "windMax", "windAvg",
	"windMean", "windMode", "windForceMax", "windForceAve",
	"bhDewPoint", "bhTw", "bhwbgt", "bhDeltaT", "bhvpd",
	"b_Apparent_Temp", "Microprocessor temperature",
}

// ProfileDirs maps each source profile to its default directory
var ProfileDirs = map[string]string{
	ProfileLocal: DefaultLocalDir,
	ProfileColab: DefaultColabDir,
}

// configFileLocations are searched in order when no config file is given
var configFileLocations = []string{
	"hiveingest.yaml",
	"configs/hiveingest.yaml",
	"../configs/hiveingest.yaml",
}
