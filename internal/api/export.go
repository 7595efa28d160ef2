// ABOUTME: Export, import and the server-rendered HTML report.

package api

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

const maxImportSize = 32 << 20

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (s *Server) handleExport(c *gin.Context) {
	ctx := c.Request.Context()
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		out, err := storage.ExportJSON(ctx, s.repo)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", out)
	case "yaml":
		out, err := storage.ExportYAML(ctx, s.repo)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
	case "markdown", "md":
		out, err := storage.ExportMarkdown(ctx, s.repo, nil)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(out))
	default:
		s.fail(c, invalid("format must be json, yaml or markdown"))
	}
}

// handleImport loads an export. YAML is accepted when the content type says
// so; everything else is read as JSON.
func (s *Server) handleImport(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		s.fail(c, invalid("read body: %v", err))
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		s.fail(c, invalid("request body is empty"))
		return
	}

	var data storage.ExportData
	if strings.Contains(c.ContentType(), "yaml") {
		err = yaml.Unmarshal(raw, &data)
	} else {
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		s.fail(c, invalid("invalid export: %v", err))
		return
	}

	if err := s.repo.ImportData(c.Request.Context(), &data); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": data.Summary()})
}

// handleReport renders the Markdown report of the last ?days= days as HTML.
func (s *Server) handleReport(c *gin.Context) {
	days, err := queryInt(c, "days", 30)
	if err != nil {
		s.fail(c, err)
		return
	}
	if days <= 0 {
		s.fail(c, invalid("days must be positive"))
		return
	}

	now := s.now()
	since := stats.StartOfDay(now).AddDate(0, 0, -(days - 1))
	data, err := s.repo.GetAllData(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	md := storage.RenderMarkdown(data, &since, now)

	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		s.fail(c, err)
		return
	}
	var page bytes.Buffer
	err = reportTemplate.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: "BiriVibe Report " + stats.DayKey(now),
		// goldmark escapes raw HTML in the source unless WithUnsafe is set.
		Body: template.HTML(body.String()), //nolint:gosec
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}
