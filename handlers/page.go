package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/index.html
var pageTemplates embed.FS

var indexTemplate = template.Must(template.ParseFS(pageTemplates, "templates/index.html"))

type PageHandler struct {
	port int
}

func NewPageHandler(port int) *PageHandler {
	return &PageHandler{port: port}
}

func (h *PageHandler) GetIndex(w http.ResponseWriter, r *http.Request) Result {
	var buf bytes.Buffer
	data := struct{ Port int }{Port: h.port}
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return InternalError(err, "render index page")
	}
	return Raw(buf.Bytes(), "text/html; charset=utf-8")
}
