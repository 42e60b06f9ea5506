package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/handler"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/session"
	"github.com/jwalitptl/auth-ui/internal/service/view"
	"github.com/jwalitptl/auth-ui/internal/web"
	"github.com/jwalitptl/auth-ui/pkg/httputil"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

// Handler serves the auth views under the base path.
type Handler struct {
	forms    *form.Service
	resolver *view.Resolver
	sessions *session.Provider
	flash    *flash.Manager
	respond  *handler.Responder
	metrics  *metrics.Metrics
}

func NewHandler(forms *form.Service, resolver *view.Resolver, sessions *session.Provider, f *flash.Manager, m *metrics.Metrics) *Handler {
	return &Handler{
		forms:    forms,
		resolver: resolver,
		sessions: sessions,
		flash:    f,
		respond:  handler.NewResponder(f),
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Show)
	r.GET("/:view", h.Show)
	r.POST("/:view", h.Submit)
}

// Show renders a view. Sign out and callback act on GET since links in
// emails and menus point at them.
func (h *Handler) Show(c *gin.Context) {
	res := h.resolver.Resolve(c.Param("view"), c.Request.URL.RawQuery)
	if res.Redirect != "" {
		c.Redirect(http.StatusFound, res.Redirect)
		return
	}

	ctx := c.Request.Context()
	req := handler.NewRequest(c, nil)

	switch res.View {
	case model.ViewSignOut:
		out, err := h.forms.SignOut(ctx, req)
		if err != nil {
			h.respond.Fail(c, err)
			return
		}
		h.respond.Redirect(c, out)
		return
	case model.ViewCallback:
		current, err := h.sessions.Current(ctx, req.Cookies)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("session lookup failed on callback")
		}
		h.respond.Redirect(c, h.forms.Callback(req, current))
		return
	case model.ViewResetPassword:
		if out := h.forms.CheckResetToken(req); out != nil {
			h.respond.Redirect(c, out)
			return
		}
	}

	h.render(c, http.StatusOK, res.View, req, nil)
}

// Submit handles a form post to a view.
func (h *Handler) Submit(c *gin.Context) {
	res := h.resolver.Resolve(c.Param("view"), c.Request.URL.RawQuery)
	if res.Redirect != "" {
		c.Redirect(http.StatusSeeOther, res.Redirect)
		return
	}
	if res.View == model.ViewCallback {
		h.Show(c)
		return
	}

	values, err := handler.Values(c)
	if err != nil {
		h.respond.Fail(c, err)
		return
	}

	req := handler.NewRequest(c, values)
	out, err := h.dispatch(c, h.formView(res.View), req)
	if err != nil {
		h.respond.Fail(c, err)
		return
	}

	if out.Redirect != "" {
		h.respond.Redirect(c, out)
		return
	}

	handler.RelayCookies(c, out.SetCookies)
	if httputil.WantsJSON(c) {
		h.respond.JSON(c, out)
		return
	}
	h.render(c, handler.Status(out), res.View, req, out)
}

func (h *Handler) dispatch(c *gin.Context, v model.ViewName, req form.Request) (*form.Outcome, error) {
	ctx := c.Request.Context()

	switch v {
	case model.ViewSignIn:
		return h.forms.SignIn(ctx, req)
	case model.ViewSignUp:
		return h.forms.SignUp(ctx, req)
	case model.ViewMagicLink:
		return h.forms.MagicLink(ctx, req)
	case model.ViewEmailOTP:
		if req.Values["step"] == form.StepVerify {
			return h.forms.VerifyEmailOTP(ctx, req)
		}
		return h.forms.SendEmailOTP(ctx, req)
	case model.ViewForgotPassword:
		return h.forms.ForgotPassword(ctx, req)
	case model.ViewResetPassword:
		return h.forms.ResetPassword(ctx, req)
	case model.ViewTwoFactor:
		return h.forms.TwoFactor(ctx, req)
	case model.ViewRecoverAccount:
		return h.forms.RecoverAccount(ctx, req)
	default:
		return h.forms.SignOut(ctx, req)
	}
}

// formView is the form a route renders. The sign-in route falls back to
// the magic link or email OTP form when credentials are disabled.
func (h *Handler) formView(route model.ViewName) model.ViewName {
	if route != model.ViewSignIn {
		return route
	}
	if variant := h.resolver.SignInVariant(); variant != "" {
		return variant
	}
	return route
}

// render shows view with the outcome of a submission, if any. Pending
// flash messages are shown before the outcome's own toast.
func (h *Handler) render(c *gin.Context, status int, route model.ViewName, req form.Request, out *form.Outcome) {
	v := h.formView(route)
	page := h.page(route, v, req, out)
	page.Toasts = h.flash.Consume(c)
	if out != nil && out.Toast != nil {
		page.Toasts = append(page.Toasts, *out.Toast)
	}

	h.metrics.ObserveView(string(v))
	if httputil.WantsJSON(c) {
		c.JSON(status, httputil.Response{Success: true, Data: page})
		return
	}
	c.HTML(status, web.TemplateAuth, page)
}
