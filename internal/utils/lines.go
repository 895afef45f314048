package utils

import (
	"fmt"
	"os"
	"strings"
)

// InputFile is an opened corpus or query file.
type InputFile struct {
	*os.File
	Path string
	Size int64
}

// OpenInput opens a text input and records its size for progress reporting.
func OpenInput(path string) (*InputFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &InputFile{File: file, Path: path, Size: info.Size()}, nil
}

// OpenInputs opens every path or none. The error names each file as present
// or missing.
func OpenInputs(paths ...string) ([]*InputFile, error) {
	files := make([]*InputFile, 0, len(paths))
	states := make([]string, 0, len(paths))
	var failed bool

	for _, path := range paths {
		f, err := OpenInput(path)
		if err != nil {
			failed = true
			states = append(states, fmt.Sprintf("%s (is missing: %v)", path, err))
			continue
		}
		files = append(files, f)
		states = append(states, path+" (is present)")
	}

	if failed {
		for _, f := range files {
			f.Close()
		}
		return nil, fmt.Errorf("one of the input files cannot be opened: %s", strings.Join(states, " , "))
	}
	return files, nil
}
