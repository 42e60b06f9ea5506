package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
	"github.com/jwalitptl/auth-ui/pkg/httputil"
)

// SubmissionResponse is the JSON answer to a form submission.
type SubmissionResponse struct {
	Form     string       `json:"form"`
	State    string       `json:"state"`
	Redirect string       `json:"redirect,omitempty"`
	Step     string       `json:"step,omitempty"`
	Toast    *model.Toast `json:"toast,omitempty"`
}

// Responder turns form outcomes into HTTP responses.
type Responder struct {
	flash *flash.Manager
}

func NewResponder(f *flash.Manager) *Responder {
	return &Responder{flash: f}
}

// Values reads the submitted values from a url-encoded form or, for JSON
// clients, from a flat JSON object.
func Values(c *gin.Context) (schema.Values, error) {
	values := schema.Values{}

	if c.ContentType() == gin.MIMEJSON {
		var raw map[string]interface{}
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, apperrors.Validation("", "malformed JSON body")
		}
		for k, v := range raw {
			if v == nil {
				continue
			}
			values[k] = fmt.Sprint(v)
		}
		return values, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, apperrors.Validation("", "malformed form body")
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values, nil
}

// NewRequest builds the form request of c.
func NewRequest(c *gin.Context, values schema.Values) form.Request {
	return form.Request{
		ClientKey: flash.ClientID(c),
		Cookies:   c.GetHeader("Cookie"),
		Values:    values,
		RawQuery:  c.Request.URL.RawQuery,
	}
}

// RelayCookies forwards the backend's Set-Cookie headers to the browser.
func RelayCookies(c *gin.Context, cookies []string) {
	for _, sc := range cookies {
		c.Writer.Header().Add("Set-Cookie", sc)
	}
}

// Status is the HTTP status of an outcome rendered in place.
func Status(out *form.Outcome) int {
	if out != nil && apperrors.KindOf(out.Err) == apperrors.KindValidation {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

// Redirect relays cookies, queues the toast for the next page and
// redirects. JSON clients get the target in the body instead.
func (r *Responder) Redirect(c *gin.Context, out *form.Outcome) {
	RelayCookies(c, out.SetCookies)

	if httputil.WantsJSON(c) {
		r.JSON(c, out)
		return
	}

	r.flash.Add(c, out.Toast)
	status := http.StatusFound
	if c.Request.Method != http.MethodGet {
		status = http.StatusSeeOther
	}
	c.Redirect(status, out.Redirect)
}

// JSON writes out for JSON clients.
func (r *Responder) JSON(c *gin.Context, out *form.Outcome) {
	if out.Err != nil {
		httputil.RespondWithFieldErrors(c, out.Err, out.Errors)
		return
	}
	httputil.RespondWithSuccess(c, SubmissionResponse{
		Form:     out.Form,
		State:    out.State.String(),
		Redirect: out.Redirect,
		Step:     out.Step,
		Toast:    out.Toast,
	})
}

// Fail answers a submission that produced no outcome.
func (r *Responder) Fail(c *gin.Context, err error) {
	log := zerolog.Ctx(c.Request.Context())

	switch {
	case apperrors.Is(err, form.ErrSubmitInFlight):
		if httputil.WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusConflict, httputil.Response{
				Error: &httputil.Error{Status: http.StatusConflict, Code: "SUBMIT_IN_FLIGHT", Message: err.Error()},
			})
			return
		}
		// The earlier submission answers with its own redirect and toast.
		c.Redirect(http.StatusSeeOther, c.Request.URL.RequestURI())
	case apperrors.Is(err, context.Canceled), apperrors.Is(err, context.DeadlineExceeded):
		log.Debug().Err(err).Msg("submission abandoned")
		c.Abort()
	default:
		_ = c.Error(err)
		c.Abort()
	}
}
