package skills

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/amishk599/skillsift/internal/model"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// prompts holds every prompt template, parsed once at package init.
var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// promptData is the single shape every template renders from.
type promptData struct {
	Text       string
	Skills     string
	Categories string
	Draft      string
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// categoryList renders the closed vocabulary as 'A', 'B', ... for prompts.
func categoryList() string {
	quoted := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		quoted[i] = "'" + c + "'"
	}
	return strings.Join(quoted, ", ")
}
