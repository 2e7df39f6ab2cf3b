package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MediaDirName is the well-known sidecar directory holding box art inside
// each collection directory.
const MediaDirName = ".media"

// ScanRoot lists the roms folder and indexes every collection subdirectory.
// Failures on individual entries are recorded in s.Errors and the entry is
// skipped; only an unreadable root aborts the scan. Collections that end up
// with no roms are dropped from the final index.
func (s *State) ScanRoot() error {
	entries, err := os.ReadDir(s.RomsFolder)
	if err != nil {
		return fmt.Errorf("failed to read roms directory '%s': %w", s.RomsFolder, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.RomsFolder, entry.Name())
		if err := s.scanCollection(entry.Name(), dir); err != nil {
			s.RecordError(fmt.Sprintf("failed to index collection '%s': %v", dir, err))
		}
	}

	kept := s.Index.Collections[:0]
	for _, c := range s.Index.Collections {
		if len(c.RomIndices) > 0 {
			kept = append(kept, c)
		}
	}
	s.Index.Collections = kept

	return nil
}

// scanCollection indexes one collection directory: every regular file
// becomes a Rom named after its stem, with its box art expected at
// .media/<stem>.png.
func (s *State) scanCollection(name, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read collection directory: %w", err)
	}

	mediaDir := filepath.Join(dir, MediaDirName)
	if _, err := os.Stat(mediaDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to check media directory '%s': %w", mediaDir, err)
		}
		if err := os.Mkdir(mediaDir, 0o755); err != nil {
			return fmt.Errorf("failed to create media directory '%s': %w", mediaDir, err)
		}
	}

	collection := Collection{Name: name}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		stem := fileStem(entry.Name())
		if stem == "" {
			s.RecordError(fmt.Sprintf("failed to extract file stem from '%s'", filepath.Join(dir, entry.Name())))
			continue
		}

		rom := Rom{
			Name:       stem,
			BoxartPath: filepath.Join(mediaDir, stem+".png"),
		}
		if info, err := os.Stat(rom.BoxartPath); err == nil {
			rom.BoxartSize = uint64(info.Size())
		} else if !os.IsNotExist(err) {
			s.RecordError(fmt.Sprintf("failed to get metadata for '%s': %v", rom.BoxartPath, err))
		}

		s.Index.Roms = append(s.Index.Roms, rom)
		collection.RomIndices = append(collection.RomIndices, len(s.Index.Roms)-1)
	}

	s.Index.Collections = append(s.Index.Collections, collection)
	return nil
}

// fileStem returns the file name without its extension. Dot-files such as
// ".gitignore" have no stem and yield "".
func fileStem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
