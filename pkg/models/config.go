package models

// GlobalConfig holds settings read from the .opsdeskconfig file.
type GlobalConfig struct {
	// Operator is the name recorded in clipboard blurbs and history output.
	Operator string
	// DefaultStation pre-fills the station code field on new drafts.
	DefaultStation string
	// DatabaseFile is the path of the SQLite database, relative to the
	// base path unless absolute.
	DatabaseFile string
	// DateWindowDays bounds how far an OFD/EAD date may sit from today
	// before validation rejects it.
	DateWindowDays int
	// ExportDir is where exported adjustment files are written.
	ExportDir string
}
