// Package tsconfig reads project config files and expands their file lists.
package tsconfig

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// FileName is the config file looked up by Find.
const FileName = "tsconfig.json"

var defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}

// Config is the part of a project config file the host acts on.
type Config struct {
	Path    string
	Files   []string
	Include []string
	Exclude []string
	AllowJS bool
	// Plugins maps each entry of compilerOptions.plugins to the rest of its fields.
	Plugins map[string]map[string]any
}

// Dir is the directory the config's globs are relative to.
func (c *Config) Dir() string {
	return path.Dir(c.Path)
}

// Load reads configFile from fs. The file must be plain JSON.
func Load(fs afero.Fs, configFile string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(configFile)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
	}

	cfg := &Config{
		Path:    configFile,
		Files:   v.GetStringSlice("files"),
		Include: v.GetStringSlice("include"),
		Exclude: v.GetStringSlice("exclude"),
		AllowJS: v.GetBool("compilerOptions.allowJs"),
		Plugins: make(map[string]map[string]any),
	}
	if !v.IsSet("files") && !v.IsSet("include") {
		cfg.Include = []string{"**/*"}
	}
	if !v.IsSet("exclude") {
		cfg.Exclude = append([]string(nil), defaultExcludes...)
		if outDir := v.GetString("compilerOptions.outDir"); outDir != "" {
			cfg.Exclude = append(cfg.Exclude, outDir)
		}
	}

	entries, _ := v.Get("compilerOptions.plugins").([]any)
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := fields["name"].(string)
		if name == "" {
			continue
		}
		payload := make(map[string]any, len(fields))
		for key, value := range fields {
			if key != "name" {
				payload[key] = value
			}
		}
		cfg.Plugins[name] = payload
	}

	return cfg, nil
}

// FileNames expands the config's file list against fs. Explicit files come
// first, then included files in walk order; every name appears once.
func (c *Config) FileNames(fs afero.Fs, extra []tshost.FileExtensionInfo) ([]string, error) {
	extensions := []string{".ts", ".tsx", ".d.ts"}
	if c.AllowJS {
		extensions = append(extensions, ".js", ".jsx")
	}
	for _, info := range extra {
		ext := info.Extension
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}

	dir := c.Dir()
	seen := make(map[string]bool)
	var fileNames []string
	add := func(fileName string) {
		if !seen[fileName] {
			seen[fileName] = true
			fileNames = append(fileNames, fileName)
		}
	}

	for _, file := range c.Files {
		add(path.Join(dir, file))
	}

	if len(c.Include) == 0 {
		return fileNames, nil
	}

	include := expandPatterns(c.Include)
	exclude := expandPatterns(c.Exclude)

	err := afero.Walk(fs, dir, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		rel := relative(dir, walkPath)
		if info.IsDir() {
			if rel != "" && matchAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !hasExtension(rel, extensions) || matchAny(exclude, rel) || !matchAny(include, rel) {
			return nil
		}
		add(path.Join(dir, rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand files of %s: %w", c.Path, err)
	}

	return fileNames, nil
}

// expandPatterns turns directory entries like "src" into "src/**/*" while
// keeping the entry itself so the directory can be pruned.
func expandPatterns(patterns []string) []string {
	expanded := make([]string, 0, len(patterns)*2)
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		expanded = append(expanded, pattern)
		if !strings.ContainsAny(path.Base(pattern), "*?.") {
			expanded = append(expanded, pattern+"/**/*")
		}
	}
	return expanded
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func relative(dir, name string) string {
	name = filepath.ToSlash(name)
	if name == dir {
		return ""
	}
	return strings.TrimPrefix(name, strings.TrimSuffix(dir, "/")+"/")
}

// Find looks for a config file in dir and its parents.
func Find(fs afero.Fs, dir string) (string, bool) {
	dir = filepath.ToSlash(dir)
	for {
		candidate := path.Join(dir, FileName)
		if ok, err := afero.Exists(fs, candidate); err == nil && ok {
			return candidate, true
		}
		parent := path.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Parser reads project configs for the plugin.
type Parser struct {
	fs afero.Fs
}

// NewParser returns a Parser reading from fs.
func NewParser(fs afero.Fs) *Parser {
	return &Parser{fs: fs}
}

func (p *Parser) ParseCommandLine(configFile string, extra []tshost.FileExtensionInfo) (*tshost.ParsedCommandLine, error) {
	cfg, err := Load(p.fs, configFile)
	if err != nil {
		return nil, err
	}
	fileNames, err := cfg.FileNames(p.fs, extra)
	if err != nil {
		return nil, err
	}
	return &tshost.ParsedCommandLine{FileNames: fileNames, Plugins: cfg.Plugins}, nil
}
