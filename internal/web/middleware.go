package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"besttweets/internal/metrics"
	"besttweets/internal/session"
)

const (
	sessionCookie = "bt_session"
	ctxSessionID  = "session_id"
	ctxSession    = "session_state"
)

// requestLogger logs each request at a level chosen by its status class and counts responses.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncResponse(route, strconv.Itoa(status))
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// sessionMiddleware attaches a fresh *session.State loaded from the bt_session cookie.
// A browser without the cookie is issued a new random id. With consume set the pending
// authorization is taken out of the store, so it can be used by one request only.
func (s *Server) sessionMiddleware(consume bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, int(s.sessionTTL.Seconds()), "/", "", strings.HasPrefix(s.publicURL, "https://"), true)
		}
		st := &session.State{}
		load := s.sessions.Load
		if consume {
			load = s.sessions.Take
		}
		p, err := load(c.Request.Context(), id)
		if err != nil {
			s.log.Warn("session load failed", zap.Error(err))
		} else {
			st.Pending = p
		}
		c.Set(ctxSessionID, id)
		c.Set(ctxSession, st)
		c.Next()
	}
}

func sessionOf(c *gin.Context) (string, *session.State) {
	st, _ := c.MustGet(ctxSession).(*session.State)
	return c.GetString(ctxSessionID), st
}

// saveSession writes st back before the response leaves, so a fast callback sees it.
func (s *Server) saveSession(c *gin.Context) {
	id, st := sessionOf(c)
	if err := s.sessions.Save(c.Request.Context(), id, st.Pending); err != nil {
		s.log.Error("session save failed", zap.Error(err))
	}
}
