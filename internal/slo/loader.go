package slo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFromDirectory discovers and loads all check files from a directory
func LoadFromDirectory(dirPath string) ([]CheckWithFile, []ValidationError) {
	var checks []CheckWithFile
	var errors []ValidationError

	files, err := discoverYAMLFiles(dirPath)
	if err != nil {
		errors = append(errors, ValidationError{
			File:    dirPath,
			Message: fmt.Sprintf("failed to read directory: %v", err),
		})
		return nil, errors
	}

	for _, file := range files {
		check, err := LoadFile(file)
		if err != nil {
			errors = append(errors, ValidationError{
				File:    file,
				Message: fmt.Sprintf("failed to parse YAML: %v", err),
			})
			continue
		}
		checks = append(checks, CheckWithFile{
			Check: check,
			File:  file,
		})
	}

	return checks, errors
}

// LoadFile parses a single YAML file into a Check
func LoadFile(filePath string) (*Check, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var check Check
	if err := yaml.Unmarshal(data, &check); err != nil {
		return nil, err
	}

	return &check, nil
}

// discoverYAMLFiles finds all *.yaml and *.yml files in a directory, sorted by path
func discoverYAMLFiles(dirPath string) ([]string, error) {
	var files []string

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}
