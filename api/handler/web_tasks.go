package handler

import (
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdesk/backend/api/view"
	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/pkg/httpcontext"
	taskUC "github.com/taskdesk/backend/usecase/task"
)

// WebTaskHandler serves the HTML task list. Every mutating action ends in a
// redirect back to GET /home so a browser refresh never replays the form.
type WebTaskHandler struct {
	baseHandler
	uc   *taskUC.UseCase
	view *view.Renderer
}

func NewWebTaskHandler(uc *taskUC.UseCase, renderer *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger) *WebTaskHandler {
	return &WebTaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		view:        renderer,
	}
}

// Home renders the current user's task list.
func (h *WebTaskHandler) Home(ctx *fasthttp.RequestCtx) {
	ownerID := h.userID(ctx)
	if ownerID == 0 {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, ownerID)
	if err != nil {
		h.logger.Error("failed to list tasks", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	page := view.HomePage{
		Username: string(ctx.Request.Header.Peek("X-Username")),
		Tasks:    tasks,
		Notice:   noticeMessage(string(ctx.QueryArgs().Peek("notice"))),
	}
	if err := h.view.Render(ctx, "home.html", page); err != nil {
		h.logger.Error("failed to render home page", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

// Add inserts a task from the submitted form and redirects back to the
// list. Failures redirect too; the outcome surfaces as a notice, never as
// an error page.
func (h *WebTaskHandler) Add(ctx *fasthttp.RequestCtx) {
	ownerID := h.userID(ctx)
	if ownerID == 0 {
		return
	}

	text := string(ctx.PostArgs().Peek("task"))
	date := string(ctx.PostArgs().Peek("date"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.AddTask(stdCtx, ownerID, text, date); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyTask):
			ctx.Redirect("/home?notice=empty", fasthttp.StatusFound)
		case errors.Is(err, domain.ErrInvalidDate):
			ctx.Redirect("/home?notice=baddate", fasthttp.StatusFound)
		default:
			h.logger.Error("failed to add task", zap.Error(err))
			ctx.Redirect("/home?notice=failed", fasthttp.StatusFound)
		}
		return
	}

	ctx.Redirect("/home", fasthttp.StatusFound)
}

// Delete removes the task when the caller owns it. A foreign-owned or
// missing id redirects exactly the same way as a successful delete.
func (h *WebTaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	ownerID := h.userID(ctx)
	if ownerID == 0 {
		return
	}

	raw, _ := ctx.UserValue("task_id").(string)
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.Redirect("/home", fasthttp.StatusFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, ownerID, taskID); err != nil {
		h.logger.Error("failed to delete task", zap.Error(err))
	}
	ctx.Redirect("/home", fasthttp.StatusFound)
}

// Clear deletes all of the caller's tasks.
func (h *WebTaskHandler) Clear(ctx *fasthttp.RequestCtx) {
	ownerID := h.userID(ctx)
	if ownerID == 0 {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.ClearTasks(stdCtx, ownerID); err != nil {
		h.logger.Error("failed to clear tasks", zap.Error(err))
	}
	ctx.Redirect("/home", fasthttp.StatusFound)
}

func noticeMessage(code string) string {
	switch code {
	case "empty":
		return "Task text cannot be empty."
	case "baddate":
		return "Task date must be YYYY-MM-DD."
	case "failed":
		return "Task was not added."
	default:
		return ""
	}
}
