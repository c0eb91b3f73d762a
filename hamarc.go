// Package hamarc is a thin library facade over pkg/archive and
// pkg/hamming, so callers embedding hamarc don't need to know the
// internal package split.
package hamarc

import (
	"hamarc/pkg/archive"
	"hamarc/pkg/hamming"
)

// DefaultDataBits and DefaultParityBits are the CLI's standalone
// defaults (k=8, r=4), usable by any caller that wants hamarc's
// out-of-the-box Hamming shape without building its own Options.
const (
	DefaultDataBits   = 8
	DefaultParityBits = 4
)

// Options is hamming.Options, re-exported so callers don't need to
// import pkg/hamming just to construct one.
type Options = hamming.Options

// FileEntry is archive.FileEntry, re-exported for the same reason.
type FileEntry = archive.FileEntry

// DefaultOptions returns the CLI's standalone Hamming defaults.
func DefaultOptions() Options {
	return Options{DataBits: DefaultDataBits, ParityBits: DefaultParityBits}
}

// Archive wraps an archive.Engine bound to one archive path and
// Hamming configuration.
type Archive struct {
	engine *archive.Engine
}

// Open returns an Archive bound to path using opts for any payload it
// encodes. opts is validated eagerly so configuration mistakes
// surface before any file is touched.
func Open(path string, opts Options) (*Archive, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Archive{engine: archive.NewEngine(path, opts)}, nil
}

// Create writes a new archive containing inputFiles.
func (a *Archive) Create(inputFiles []string) error {
	return a.engine.Create(inputFiles)
}

// List returns the archive's entries.
func (a *Archive) List() ([]FileEntry, error) {
	return a.engine.List()
}

// Extract decodes requestedFiles (or every entry, if empty) to the
// current directory.
func (a *Archive) Extract(requestedFiles []string) error {
	return a.engine.Extract(requestedFiles)
}

// Append adds inputFiles to the archive.
func (a *Archive) Append(inputFiles []string) error {
	return a.engine.Append(inputFiles)
}

// Delete removes namesToDelete from the archive.
func (a *Archive) Delete(namesToDelete []string) error {
	return a.engine.Delete(namesToDelete)
}

// Concatenate combines sourceArchives into this archive's path.
func (a *Archive) Concatenate(sourceArchives []string) error {
	return a.engine.Concatenate(sourceArchives)
}
