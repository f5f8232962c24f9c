package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tasktracker/internal/handler"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/service"
	"tasktracker/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "session"

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	session := args.Get(0)
	if session == nil {
		return nil, args.Error(1)
	}
	return session.(*service.Session), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, owner *model.User) ([]model.Task, error) {
	args := m.Called(ctx, owner)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, owner *model.User, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, owner, in)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskService) Toggle(ctx context.Context, owner *model.User, taskID uint) (*model.Task, error) {
	args := m.Called(ctx, owner, taskID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskService) Edit(ctx context.Context, owner *model.User, taskID uint, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, owner, taskID, in)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, owner *model.User, taskID uint) error {
	args := m.Called(ctx, owner, taskID)
	return args.Error(0)
}

func (m *MockTaskService) Stats(ctx context.Context, owner *model.User) (service.Stats, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(service.Stats), args.Error(1)
}

// newEngine returns an engine with the real templates. When user is not nil
// every request runs as that user.
func newEngine(t *testing.T, user *model.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserKey, user)
		}
		c.Next()
	})
	return r
}

func setupTaskRouter(t *testing.T, user *model.User) (*gin.Engine, *MockTaskService) {
	r := newEngine(t, user)
	tasks := new(MockTaskService)
	h := handler.NewTaskHandler(tasks, zerolog.Nop())

	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.POST("/task/:id/edit", h.Edit)
	r.POST("/api/task/:id/toggle", h.Toggle)
	r.DELETE("/api/task/:id/delete", h.Delete)
	return r, tasks
}

func setupAuthRouter(t *testing.T, user *model.User) (*gin.Engine, *MockAuthService) {
	r := newEngine(t, user)
	auth := new(MockAuthService)
	h := handler.NewAuthHandler(auth, handler.CookieConfig{Name: sessionCookie}, zerolog.Nop())

	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	return r, auth
}

func setupPageRouter(t *testing.T, user *model.User) (*gin.Engine, *MockTaskService) {
	r := newEngine(t, user)
	tasks := new(MockTaskService)
	h := handler.NewPageHandler(tasks, zerolog.Nop())

	r.GET("/", h.Home)
	r.GET("/profile", h.Profile)
	r.GET("/about", h.About)
	r.GET("/form", h.Form)
	r.POST("/form", h.Form)
	r.NoRoute(h.NotFound)
	return r, tasks
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func postForm(path string, values url.Values) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func cookieByName(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashOf decodes the flash cookie set by resp.
func flashOf(t *testing.T, resp *httptest.ResponseRecorder) web.Flash {
	t.Helper()
	cookie := cookieByName(resp, "flash")
	require.NotNil(t, cookie, "flash cookie not set")

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	require.NoError(t, err)
	var f web.Flash
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}
