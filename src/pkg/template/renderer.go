package template

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// Renderer handles template rendering
type Renderer struct {
	funcMap template.FuncMap
}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: template.FuncMap{
			"gt": func(a, b int) bool { return a > b },
			"shortSHA": func(sha string) string {
				if len(sha) > 7 {
					return sha[:7]
				}
				return sha
			},
		},
	}
}

// Render renders a template file with the provided data
func (r *Renderer) Render(templatePath string, data interface{}) (string, error) {
	// Read template file
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	return r.RenderString(string(content), data)
}

// RenderString renders a template string with the provided data
func (r *Renderer) RenderString(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("template").Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GetDefaultReportTemplate returns the default report template
// This template supports the ReportData structure
func (r *Renderer) GetDefaultReportTemplate() string {
	return `# 🔍 Pull Request Report: {{.Repository}}#{{.PR.Number}}

**{{.PR.Title}}**

**Timestamp:** {{.Timestamp.Format "2006-01-02 15:04:05 UTC"}}
**Author:** @{{.PR.Author}} | **State:** {{.PR.State}}{{if .PR.Draft}} (draft){{end}}{{if .PR.Merged}} (merged){{end}}
**Base:** ` + "`{{.PR.BaseRef}}`" + ` ({{shortSHA .PR.BaseSHA}}) → **Head:** ` + "`{{.PR.HeadRef}}`" + ` ({{shortSHA .PR.HeadSHA}})

---

## 📊 Changes

{{if .Patch}}
**Lines changed:** {{.PatchStats.LineCount}}{{if gt .PatchStats.LineCount 0}} (+{{.PatchStats.AddedLineCount}} / -{{.PatchStats.DeletedLineCount}}){{end}}

<details>
<summary>Click to expand diff</summary>

` + "```diff" + `
{{.Patch}}
` + "```" + `

</details>
{{else}}
✅ No diff collected.
{{end}}

---

## 💬 Comments

{{if .Comments}}
{{range .Comments}}
- **@{{.User}}** ({{.CreatedAt.Format "2006-01-02 15:04"}}): {{.Body}}
{{end}}
{{else}}
_No comments yet._
{{end}}

---

## 👀 Reviews

{{if .Reviews}}
| Reviewer | State | Submitted |
|----------|-------|-----------|
{{range .Reviews}}| @{{.User}} | {{.State}} | {{.SubmittedAt.Format "2006-01-02 15:04"}} |
{{end}}
{{else}}
_No reviews yet._
{{end}}

---

_Generated by [prbridge](https://github.com/hv-doan/prbridge)_
`
}
