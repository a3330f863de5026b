package api

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed templates/pages/*.html templates/components/*.html templates/partials/*.html templates/static/*
var templateFiles embed.FS

// TemplateFiles returns the embedded template filesystem.
func TemplateFiles() embed.FS {
	return templateFiles
}

var templatePatterns = []string{
	"templates/pages/*.html",
	"templates/components/*.html",
	"templates/partials/*.html",
}

// loadTemplates parses the page templates. A custom filesystem replaces the
// embedded one; patterns it does not provide are skipped.
func loadTemplates(customTemplateFS *embed.FS) (*template.Template, error) {
	templateFS := templateFiles
	if customTemplateFS != nil {
		templateFS = *customTemplateFS
		if err := ValidateTemplateFS(templateFS); err != nil {
			return nil, err
		}
	}

	tmpl := template.New("")
	for _, pattern := range templatePatterns {
		matches, err := fs.Glob(templateFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob templates from %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}

		if _, err := tmpl.ParseFS(templateFS, pattern); err != nil {
			return nil, fmt.Errorf("failed to parse templates from %s: %w", pattern, err)
		}
	}

	return tmpl, nil
}

// ValidateTemplateFS checks that a template filesystem has a templates
// directory with at least one file in it.
func ValidateTemplateFS(files fs.FS) error {
	const root = "templates"

	if _, err := fs.Stat(files, root); err != nil {
		return fmt.Errorf("root path %q does not exist in template filesystem: %w", root, err)
	}

	hasFiles := false
	err := fs.WalkDir(files, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			hasFiles = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk template filesystem: %w", err)
	}
	if !hasFiles {
		return fmt.Errorf("root path %q exists but contains no files", root)
	}
	return nil
}
