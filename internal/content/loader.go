// Package content serves the static markdown documents shipped with the diagnostic tool.
// Documents are embedded at compile time and cached after the first read.
package content

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed docs/*.md
var docFiles embed.FS

// Document is one embedded markdown document.
type Document struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Body     string `json:"-"`
}

// MediaType is the content type documents are served with.
const MediaType = "text/markdown; charset=utf-8"

// ExerciseName names the practical exercise scenario.
const ExerciseName = "exercise"

type entry struct {
	name     string
	title    string
	filename string
	resource bool
}

// catalog lists documents in display order. Only resources are offered for download.
var catalog = []entry{
	{name: "checklist", title: "AI Diagnostic Checklist", filename: "ai_diagnostic_checklist.md", resource: true},
	{name: "override", title: "Human Override Documentation Template", filename: "human_override_template.md", resource: true},
	{name: "risk", title: "Risk Assessment Framework", filename: "risk_assessment_framework.md", resource: true},
	{name: "framework", title: "Generic AI Diagnostic Framework", filename: "generic_ai_diagnostic_framework.md", resource: true},
	{name: ExerciseName, title: "Practical Exercise: AI Customer Service Chatbot", filename: "exercise_scenario.md"},
}

// NotFoundError is returned for names outside the catalog.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %q not found", e.Name)
}

var (
	cache   = make(map[string]Document)
	cacheMu sync.RWMutex
)

// Get returns a document by name.
func Get(name string) (Document, error) {
	cacheMu.RLock()
	if doc, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return doc, nil
	}
	cacheMu.RUnlock()

	e, ok := lookup(name)
	if !ok {
		return Document{}, &NotFoundError{Name: name}
	}

	data, err := docFiles.ReadFile("docs/" + e.filename)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document %s: %w", e.filename, err)
	}

	doc := Document{Name: e.name, Title: e.title, Filename: e.filename, Body: string(data)}

	cacheMu.Lock()
	cache[name] = doc
	cacheMu.Unlock()

	return doc, nil
}

// MustGet returns a document by name, panicking if it cannot be loaded.
func MustGet(name string) Document {
	doc, err := Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load document: %v", err))
	}
	return doc
}

// Resources returns the downloadable documents in display order, without bodies.
func Resources() []Document {
	docs := make([]Document, 0, len(catalog))
	for _, e := range catalog {
		if e.resource {
			docs = append(docs, Document{Name: e.name, Title: e.title, Filename: e.filename})
		}
	}
	return docs
}

// Exercise returns the practical exercise scenario.
func Exercise() (Document, error) {
	return Get(ExerciseName)
}

// ClearCache clears the document cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]Document)
	cacheMu.Unlock()
}

func lookup(name string) (entry, bool) {
	for _, e := range catalog {
		if e.name == name {
			return e, true
		}
	}
	return entry{}, false
}
