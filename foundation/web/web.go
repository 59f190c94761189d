// Package web is a small framework layer on top of gin. Handlers return
// errors instead of writing responses themselves; the error is translated
// into a response in one place.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the signature all application handlers implement.
type Handler func(c *Context) error

// Middleware wraps a Handler with extra behavior.
type Middleware func(Handler) Handler

// App is the entry point for the web application. It embeds the gin engine
// so raw gin routes remain available next to the Handler-based ones.
type App struct {
	*gin.Engine
	log *zap.Logger
}

func NewApp(log *zap.Logger) *App {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &App{
		Engine: engine,
		log:    log,
	}
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)

	a.Engine.Handle(method, path, func(gc *gin.Context) {
		c := &Context{
			Context: gc,
			Ctx:     gc.Request.Context(),
			log:     a.log,
		}

		if err := handler(c); err != nil {
			_ = c.RespondError(err)
		}
	})
}

func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	// Wrap in reverse order so the first middleware runs first.
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}

	return handler
}
