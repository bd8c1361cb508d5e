package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdesk/backend/api/handler"
)

type Handlers struct {
	WebAuth  *apiHandler.WebAuthHandler
	WebTasks *apiHandler.WebTaskHandler
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	Health   *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, sessionAuth, jwtAuth Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Web surface: login and registration are public, the task list is
	// session-guarded; anonymous access redirects to /login.
	r.GET("/", handlers.WebAuth.LoginPage)
	r.POST("/", handlers.WebAuth.Login)
	r.GET("/login", handlers.WebAuth.LoginPage)
	r.POST("/login", handlers.WebAuth.Login)
	r.GET("/register", handlers.WebAuth.RegisterPage)
	r.POST("/register", handlers.WebAuth.Register)

	r.GET("/home", sessionAuth(handlers.WebTasks.Home))
	r.POST("/home", sessionAuth(handlers.WebTasks.Add))
	r.POST("/delete_task/{task_id}", sessionAuth(handlers.WebTasks.Delete))
	r.POST("/clear", sessionAuth(handlers.WebTasks.Clear))
	r.GET("/logout", sessionAuth(handlers.WebAuth.Logout))

	// JSON API surface, bearer-token guarded.
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/register", handlers.Auth.Register)

	r.GET("/api/v1/tasks", jwtAuth(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", jwtAuth(handlers.Task.CreateTask))
	r.DELETE("/api/v1/tasks", jwtAuth(handlers.Task.ClearTasks))
	r.DELETE("/api/v1/tasks/{id}", jwtAuth(handlers.Task.DeleteTask))

	return r
}
