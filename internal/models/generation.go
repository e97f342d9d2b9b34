package models

// GeneratedFile is one rendered artifact ready to be written
type GeneratedFile struct {
	Path       string // output path, relative to the output root
	Content    []byte // formatted Go source
	Controller string // controller name, empty for the registry
	IsRegistry bool
}
