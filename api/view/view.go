package view

import (
	"embed"
	"html/template"

	"github.com/valyala/fasthttp"

	"github.com/taskdesk/backend/domain"
)

//go:embed templates/*.html
var files embed.FS

// Renderer executes the embedded page templates. Rendering is a thin
// presentation wrapper; all behavior lives in the use cases.
type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	templates, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

// MustNew panics when the embedded templates fail to parse.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

type LoginPage struct {
	Error string
}

type RegisterPage struct {
	Error string
}

type HomePage struct {
	Username string
	Tasks    []domain.Task
	Notice   string
}

// Render writes the named template to the response with an HTML content type.
func (r *Renderer) Render(ctx *fasthttp.RequestCtx, name string, data interface{}) error {
	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	return r.templates.ExecuteTemplate(ctx, name, data)
}
