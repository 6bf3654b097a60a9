// Package web serves the subscription handshake and the daily editions over HTTP.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"besttweets/internal/metrics"
	"besttweets/internal/model"
	"besttweets/internal/oauthflow"
	"besttweets/internal/rank"
	"besttweets/internal/session"
	"besttweets/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Fetcher reads a subscriber's recent posts.
type Fetcher interface {
	FetchRecentActivity(ctx context.Context, id model.Identity, cred model.Credential) ([]model.ActivityItem, error)
}

// Options carries everything the server needs. Nothing is read from globals per request.
type Options struct {
	Controller  *oauthflow.Controller
	Tokens      store.TokenStore
	Fetcher     Fetcher
	Pipeline    rank.Pipeline
	Sessions    session.Store
	SessionTTL  time.Duration
	PublicURL   string
	ServiceName string
	Logger      *zap.Logger
	Now         func() time.Time
}

type Server struct {
	ctrl       *oauthflow.Controller
	tokens     store.TokenStore
	fetcher    Fetcher
	pipeline   rank.Pipeline
	sessions   session.Store
	sessionTTL time.Duration
	publicURL  string
	service    string
	log        *zap.Logger
	now        func() time.Time
	tmpl       *template.Template
}

func New(o Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{"plural": plural}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 30 * time.Minute
	}
	if o.Sessions == nil {
		o.Sessions = session.NewMemory(o.SessionTTL)
	}
	return &Server{
		ctrl:       o.Controller,
		tokens:     o.Tokens,
		fetcher:    o.Fetcher,
		pipeline:   o.Pipeline,
		sessions:   o.Sessions,
		sessionTTL: o.SessionTTL,
		publicURL:  o.PublicURL,
		service:    o.ServiceName,
		log:        o.Logger,
		now:        o.Now,
		tmpl:       tmpl,
	}, nil
}

// Router wires gin routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	if s.service != "" {
		r.Use(otelgin.Middleware(s.service))
	}
	r.SetHTMLTemplate(s.tmpl)

	static, _ := fs.Sub(staticFS, "static/img")
	r.StaticFS("/img", http.FS(static))

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/sample/") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/configure/", s.sessionMiddleware(false), s.configure)
	r.GET("/return/", s.sessionMiddleware(true), s.complete)
	r.GET("/edition/", s.edition)
	r.GET("/sample/", s.sample)
	r.POST("/validate_config/", s.validateConfig)
	return r
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
