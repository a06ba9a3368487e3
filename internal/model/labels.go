package model

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// labelFilenames are the class-name lists bundled with classifier
// models, in lookup order.
var labelFilenames = []string{"labels.txt", "class_map.txt"}

// ReadLabels loads the class-name list from a model directory. One
// label per line, blank lines skipped.
func ReadLabels(modelDir string) ([]string, error) {
	var path string
	for _, name := range labelFilenames {
		candidate := filepath.Join(modelDir, name)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		return nil, fmt.Errorf("no label file found in %s", modelDir)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	return labels, nil
}
