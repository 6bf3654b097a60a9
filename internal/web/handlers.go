package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"besttweets/internal/apperr"
	"besttweets/internal/etag"
	"besttweets/internal/model"
	"besttweets/internal/oauthflow"
	"besttweets/internal/rank"
	"besttweets/internal/store"
)

// configure starts the handshake for the publication platform's return_url.
func (s *Server) configure(c *gin.Context) {
	_, st := sessionOf(c)
	redirect, err := s.ctrl.BeginAuthorization(c.Request.Context(), st, c.Query("return_url"), s.baseURL(c)+"/return/")
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.saveSession(c)
	c.Redirect(http.StatusFound, redirect)
}

// complete handles upstream's callback and sends the user back to the platform.
func (s *Server) complete(c *gin.Context) {
	_, st := sessionOf(c)
	cb := oauthflow.Callback{
		Verifier: c.Query("oauth_verifier"),
		Denied:   c.Query("denied") != "",
	}
	redirect, err := s.ctrl.CompleteAuthorization(c.Request.Context(), st, cb)
	s.saveSession(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

// edition renders today's best posts for the identity named by access_token.
func (s *Server) edition(c *gin.Context) {
	const op = "web.edition"
	ctx := c.Request.Context()
	id := model.Identity(strings.TrimSpace(c.Query("access_token")))
	if id == "" {
		s.renderError(c, apperr.E(apperr.KindClientInput, op, errors.New("access_token is required")))
		return
	}
	cred, err := s.tokens.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = apperr.E(apperr.KindNoCredential, op, err)
		} else {
			err = apperr.E(apperr.KindInternal, "store.get", err)
		}
		s.renderError(c, err)
		return
	}

	now := s.now()
	tag := etag.ComputeValidationTag(string(id), now)
	if etag.Matches(c.GetHeader("If-None-Match"), tag) {
		c.Header("ETag", etag.Header(tag))
		c.Status(http.StatusNotModified)
		return
	}

	items, err := s.fetcher.FetchRecentActivity(ctx, id, cred)
	if err != nil {
		// the revoked page keeps the day's tag; other failures carry none
		if apperr.Is(err, apperr.KindUnauthorized) {
			c.Header("ETag", etag.Header(tag))
		}
		s.renderError(c, err)
		return
	}
	res := s.pipeline.Build(id, items, now)
	c.Header("ETag", etag.Header(res.Digest.ValidationTag))
	if res.Kind == rank.Empty {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "publication.html", newPublicationView(res.Digest))
}

// sample renders the fixed demonstration edition.
func (s *Server) sample(c *gin.Context) {
	d := s.pipeline.Sample(s.baseURL(c), s.now())
	c.Header("ETag", etag.Header(d.ValidationTag))
	if etag.Matches(c.GetHeader("If-None-Match"), d.ValidationTag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.HTML(http.StatusOK, "publication.html", newPublicationView(d))
}

// validateConfig accepts every configuration; subscriptions carry no options.
func (s *Server) validateConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "errors": []string{}})
}

func (s *Server) renderError(c *gin.Context, err error) {
	out := apperr.Classify(err)
	s.log.Warn("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("op", apperr.OpOf(err)),
		zap.Stringer("kind", apperr.KindOf(err)),
		zap.String("code", out.Code),
		zap.Error(err))
	c.HTML(out.Status, "error.html", gin.H{"Title": out.Title, "Message": out.Message, "Code": out.Code})
}

// baseURL is the configured public URL, or one derived from the request.
func (s *Server) baseURL(c *gin.Context) string {
	if s.publicURL != "" {
		return strings.TrimRight(s.publicURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

type itemView struct {
	Text          string
	Time          string
	FavoriteCount int
	RetweetCount  int
}

type publicationView struct {
	DisplayName string
	Handle      string
	AvatarURL   string
	Summary     string
	Items       []itemView
}

func newPublicationView(d model.Digest) publicationView {
	v := publicationView{DisplayName: d.DisplayName, Handle: d.Handle, AvatarURL: d.AvatarURL}
	period := "day"
	if d.DaysFetched > 1 {
		period = fmt.Sprintf("%d days", d.DaysFetched)
	}
	v.Summary = fmt.Sprintf("The best %d of %d %s from the past %s", len(d.Items), d.TotalInWindow, plural(d.TotalInWindow, "Tweet", "Tweets"), period)
	for _, it := range d.Items {
		v.Items = append(v.Items, itemView{
			Text:          it.Text,
			Time:          it.CreatedAt.Format("3:04pm"),
			FavoriteCount: it.FavoriteCount,
			RetweetCount:  it.RetweetCount,
		})
	}
	return v
}
