package config

const (
	DefaultLogLevel = "info"

	// Renamer defaults
	DefaultPrefix            = "img_"
	DefaultStart             = 1
	DefaultPad               = 3
	DefaultRenameOnCollision = "prompt"

	// Splitter defaults
	DefaultDest             = "."
	DefaultTrain            = 0.7
	DefaultVal              = 0.2
	DefaultTest             = 0.1
	DefaultSplitOnCollision = "overwrite"
)

const PolicyNames = "overwrite, skip, rename, prompt"
