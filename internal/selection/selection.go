// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection tracks the chosen file and target format and derives
// whether a conversion may start. It holds no locks; the controller
// serializes access.
package selection

import "github.com/pdiddy/file-converter/pkg/types"

// State is the current file and format selection.
type State struct {
	file    types.FileSelection
	hasFile bool
	format  types.FormatChoice

	// generation changes whenever the file changes, so a conversion can
	// tell whether the file it was started for is still current.
	generation uint64
}

// SelectFile replaces the current file unconditionally.
func (s *State) SelectFile(f types.FileSelection) {
	s.file = f
	s.hasFile = true
	s.generation++
}

// RemoveFile clears the file. The format is kept. Removing when nothing is
// selected is a no-op apart from bumping the generation.
func (s *State) RemoveFile() {
	s.file = types.FileSelection{}
	s.hasFile = false
	s.generation++
}

// SelectFormat makes format the single active format.
func (s *State) SelectFormat(format types.FormatChoice) {
	s.format = format
}

// File returns the selected file, if any.
func (s *State) File() (types.FileSelection, bool) {
	return s.file, s.hasFile
}

// Format returns the active format, or "" when none is active.
func (s *State) Format() types.FormatChoice {
	return s.format
}

// CanConvert reports whether both a file and a format are selected.
func (s *State) CanConvert() bool {
	return s.hasFile && s.format != ""
}

// Request returns the derived conversion request. ok is false unless
// CanConvert holds.
func (s *State) Request() (req types.ConversionRequest, ok bool) {
	if !s.CanConvert() {
		return types.ConversionRequest{}, false
	}
	return types.ConversionRequest{File: s.file, Format: s.format}, true
}

// Generation identifies the current file selection.
func (s *State) Generation() uint64 {
	return s.generation
}
