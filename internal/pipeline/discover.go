package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/photostamp/internal/media"
)

// Discover walks workDir, collects files with media extensions, marks
// live-photo pairs, and returns them sorted by path for deterministic
// processing order.
func Discover(workDir string) ([]media.File, error) {
	var files []media.File
	err := filepath.WalkDir(filepath.Clean(workDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !media.IsMedia(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if f, ok := media.New(path, info.ModTime()); ok {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	media.PairLive(files)
	return files, nil
}
