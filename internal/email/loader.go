package email

import (
	"fmt"
	"io"
	"strings"
)

// memoryLoader serves compiled-in templates to a pongo2 set.
type memoryLoader struct {
	templates map[string]string
}

func (l *memoryLoader) Abs(_, name string) string {
	return name
}

func (l *memoryLoader) Get(path string) (io.Reader, error) {
	tpl, ok := l.templates[path]
	if !ok {
		return nil, fmt.Errorf("template %q not found", path)
	}
	return strings.NewReader(tpl), nil
}
