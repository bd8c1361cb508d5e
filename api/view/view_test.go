package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskdesk/backend/domain"
)

func TestTemplatesParse(t *testing.T) {
	_, err := New()
	require.NoError(t, err)
}

func TestRenderHome(t *testing.T) {
	renderer := MustNew()

	ctx := &fasthttp.RequestCtx{}
	err := renderer.Render(ctx, "home.html", HomePage{
		Username: "alice",
		Tasks: []domain.Task{
			{ID: 1, Text: "Buy milk", Date: "2025-04-26"},
		},
	})
	require.NoError(t, err)

	body := string(ctx.Response.Body())
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "04/26/2025")
	assert.Contains(t, body, "/delete_task/1")
	assert.Contains(t, string(ctx.Response.Header.ContentType()), "text/html")
}

func TestRenderHome_EscapesTaskText(t *testing.T) {
	renderer := MustNew()

	ctx := &fasthttp.RequestCtx{}
	err := renderer.Render(ctx, "home.html", HomePage{
		Username: "alice",
		Tasks:    []domain.Task{{ID: 1, Text: "<script>alert(1)</script>", Date: "2025-04-26"}},
	})
	require.NoError(t, err)

	body := string(ctx.Response.Body())
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestRenderLoginWithError(t *testing.T) {
	renderer := MustNew()

	ctx := &fasthttp.RequestCtx{}
	require.NoError(t, renderer.Render(ctx, "login.html", LoginPage{Error: "Invalid username or password."}))
	assert.Contains(t, string(ctx.Response.Body()), "Invalid username or password.")
}

func TestRenderRegisterWithError(t *testing.T) {
	renderer := MustNew()

	ctx := &fasthttp.RequestCtx{}
	require.NoError(t, renderer.Render(ctx, "register.html", RegisterPage{Error: "Username already exists!"}))
	assert.Contains(t, string(ctx.Response.Body()), "Username already exists!")
}
