package live

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"
)

// ContentTemplate is the block re-rendered after each action. The client
// swaps it into the element marked data-live-root.
const ContentTemplate = "content"

// Template renders a live page. The template named after the page renders
// the full document; ContentTemplate renders the live region.
type Template struct {
	name     string
	funcs    template.FuncMap
	patterns []string
	devMode  bool
	minify   bool

	mu   sync.RWMutex
	tmpl *template.Template
}

// TemplateOption configures a Template.
type TemplateOption func(*Template)

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) TemplateOption {
	return func(t *Template) {
		for k, v := range funcs {
			t.funcs[k] = v
		}
	}
}

// WithDevMode exposes dev mode to templates as .lvt.DevMode.
func WithDevMode(enabled bool) TemplateOption {
	return func(t *Template) { t.devMode = enabled }
}

// WithMinifyDisabled renders HTML as written.
func WithMinifyDisabled() TemplateOption {
	return func(t *Template) { t.minify = false }
}

// New creates an empty Template named name.
func New(name string, opts ...TemplateOption) *Template {
	t := &Template{
		name:   name,
		funcs:  template.FuncMap{},
		minify: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the page template name.
func (t *Template) Name() string { return t.name }

// ParseFS parses the files matching patterns in fsys. The patterns are
// kept for Reload.
func (t *Template) ParseFS(fsys fs.FS, patterns ...string) (*Template, error) {
	parsed, err := t.parse(fsys, patterns)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.patterns = patterns
	t.tmpl = parsed
	t.mu.Unlock()
	return t, nil
}

// Reload re-parses the templates from fsys. On failure the previous
// templates stay in use.
func (t *Template) Reload(fsys fs.FS) error {
	t.mu.RLock()
	patterns := t.patterns
	t.mu.RUnlock()

	parsed, err := t.parse(fsys, patterns)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.tmpl = parsed
	t.mu.Unlock()
	return nil
}

func (t *Template) parse(fsys fs.FS, patterns []string) (*template.Template, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("template %s: no patterns", t.name)
	}
	parsed, err := template.New(t.name).Funcs(t.funcs).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", t.name, err)
	}
	for _, required := range []string{t.name, ContentTemplate} {
		if parsed.Lookup(required) == nil {
			return nil, fmt.Errorf("template %s: missing %q definition", t.name, required)
		}
	}
	return parsed, nil
}

// Execute writes the full page.
func (t *Template) Execute(w io.Writer, data interface{}, errors map[string]string) error {
	out, err := t.execute(t.name, data, errors)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Render returns the live region HTML.
func (t *Template) Render(data interface{}, errors map[string]string) (string, error) {
	return t.execute(ContentTemplate, data, errors)
}

func (t *Template) execute(name string, data interface{}, errors map[string]string) (string, error) {
	t.mu.RLock()
	tmpl := t.tmpl
	t.mu.RUnlock()
	if tmpl == nil {
		return "", fmt.Errorf("template %s not parsed", t.name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, templateData(data, errors, t.devMode)); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	if !t.minify {
		return buf.String(), nil
	}
	return minifyHTML(buf.String()), nil
}

// TemplateContext provides utility functions for templates via the lvt namespace
type TemplateContext struct {
	errors  map[string]string
	DevMode bool
}

// Error returns the error message for a field
func (t *TemplateContext) Error(field string) string {
	if t.errors == nil {
		return ""
	}
	return t.errors[field]
}

// HasError checks if a field has an error
func (t *TemplateContext) HasError(field string) bool {
	if t.errors == nil {
		return false
	}
	_, exists := t.errors[field]
	return exists
}

// HasAnyError checks if any errors exist
func (t *TemplateContext) HasAnyError() bool {
	return len(t.errors) > 0
}

// AllErrors returns all errors
func (t *TemplateContext) AllErrors() map[string]string {
	if t.errors == nil {
		return make(map[string]string)
	}
	return t.errors
}

// templateData flattens the exported fields of data into a map next to
// the lvt context. Page holds data itself so its methods stay reachable.
func templateData(data interface{}, errors map[string]string, devMode bool) map[string]interface{} {
	templateData := map[string]interface{}{
		"lvt":  &TemplateContext{errors: errors, DevMode: devMode},
		"Page": data,
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldName := field.Name
			if jsonTag := field.Tag.Get("json"); jsonTag != "" {
				if commaIdx := strings.Index(jsonTag, ","); commaIdx > 0 {
					fieldName = jsonTag[:commaIdx]
				} else if jsonTag != "-" && commaIdx < 0 {
					fieldName = jsonTag
				}
			}
			templateData[fieldName] = val.Field(i).Interface()
			templateData[field.Name] = val.Field(i).Interface()
		}
	case reflect.Map:
		for _, key := range val.MapKeys() {
			templateData[key.String()] = val.MapIndex(key).Interface()
		}
	}

	return templateData
}
