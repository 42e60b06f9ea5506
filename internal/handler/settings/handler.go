package settings

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/handler"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/device"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/session"
	"github.com/jwalitptl/auth-ui/internal/web"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
	"github.com/jwalitptl/auth-ui/pkg/httputil"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

// Handler serves the account settings page: email, verification and
// sessions.
type Handler struct {
	forms    *form.Service
	sessions *session.Provider
	devices  *device.Detector
	flash    *flash.Manager
	respond  *handler.Responder
	metrics  *metrics.Metrics
}

func NewHandler(forms *form.Service, sessions *session.Provider, devices *device.Detector, f *flash.Manager, m *metrics.Metrics) *Handler {
	return &Handler{
		forms:    forms,
		sessions: sessions,
		devices:  devices,
		flash:    f,
		respond:  handler.NewResponder(f),
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Show)
	r.POST("/email", h.ChangeEmail)
	r.POST("/verification", h.ResendVerification)
	r.POST("/sessions/revoke", h.RevokeSession)
}

func (h *Handler) Show(c *gin.Context) {
	current, ok := h.current(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, current, nil)
}

func (h *Handler) ChangeEmail(c *gin.Context) {
	h.submit(c, func(req form.Request, current *model.SessionData) (*form.Outcome, error) {
		return h.forms.ChangeEmail(c.Request.Context(), req, current)
	})
}

func (h *Handler) ResendVerification(c *gin.Context) {
	h.submit(c, func(req form.Request, current *model.SessionData) (*form.Outcome, error) {
		return h.forms.ResendVerification(c.Request.Context(), req, current)
	})
}

func (h *Handler) RevokeSession(c *gin.Context) {
	h.submit(c, func(req form.Request, current *model.SessionData) (*form.Outcome, error) {
		return h.forms.RevokeSession(c.Request.Context(), req, current, req.Values["token"])
	})
}

func (h *Handler) submit(c *gin.Context, act func(form.Request, *model.SessionData) (*form.Outcome, error)) {
	current, ok := h.current(c)
	if !ok {
		return
	}

	values, err := handler.Values(c)
	if err != nil {
		h.respond.Fail(c, err)
		return
	}

	out, err := act(handler.NewRequest(c, values), current)
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
	h.render(c, handler.Status(out), current, out)
}

// current returns the signed in user's session. Without one the browser
// is sent to sign in and ok is false.
func (h *Handler) current(c *gin.Context) (*model.SessionData, bool) {
	current, err := h.sessions.Current(c.Request.Context(), c.GetHeader("Cookie"))
	if err != nil {
		_ = c.Error(apperrors.DelegatedFailure("SESSION_LOOKUP_FAILED", "could not load the current session", err))
		c.Abort()
		return nil, false
	}
	if current == nil {
		cfg := h.forms.Config()
		target := cfg.ViewURL(model.ViewSignIn, "redirectTo="+url.QueryEscape(h.forms.SettingsURL()))
		if httputil.WantsJSON(c) {
			httputil.RespondWithError(c, apperrors.Validation("session", form.ErrNoSession.Error()))
			return nil, false
		}
		status := http.StatusFound
		if c.Request.Method != http.MethodGet {
			status = http.StatusSeeOther
		}
		c.Redirect(status, target)
		return nil, false
	}
	return current, true
}

// render shows the settings page. out is the change-email outcome when the
// page is rendered again after a failed submission.
func (h *Handler) render(c *gin.Context, status int, current *model.SessionData, out *form.Outcome) {
	cfg := h.forms.Config()
	loc := h.forms.Localization()
	base := h.forms.SettingsURL()

	page := web.SettingsPage{
		Title:   loc.Get(localization.KeySettings),
		User:    current.User,
		Toasts:  h.flash.Consume(c),
		SignOut: cfg.ViewURL(model.ViewSignOut, ""),
	}
	if out != nil && out.Toast != nil {
		page.Toasts = append(page.Toasts, *out.Toast)
	}

	page.Email = h.emailForm(base, current, out)
	if h.forms.NeedsVerification(current) {
		page.Resend = &web.Form{Action: base + "/verification", Submit: loc.Get(localization.KeyResendVerificationEmail)}
	}

	sessions, err := h.sessions.List(c.Request.Context(), c.GetHeader("Cookie"))
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to list sessions")
		page.Toasts = append(page.Toasts, *model.NewErrorToast(loc.ErrorMessage(err)))
	}
	for _, s := range sessions {
		page.Sessions = append(page.Sessions, h.cell(base, s, current, loc))
	}

	h.metrics.ObserveView("settings")
	if httputil.WantsJSON(c) {
		c.JSON(status, httputil.Response{Success: true, Data: page})
		return
	}
	c.HTML(status, web.TemplateSettings, page)
}

// emailForm is the change-email card. With email changes disabled the
// current address is shown read-only.
func (h *Handler) emailForm(base string, current *model.SessionData, out *form.Outcome) *web.Form {
	loc := h.forms.Localization()
	sch := h.forms.ChangeEmailSchema()

	values := map[string]string{"email": current.User.Email}
	var errs map[string]string
	if out != nil && out.Form == form.FormChangeEmail {
		values, errs = out.Values, out.Errors
	}

	if !h.forms.Config().Features.ChangeEmail {
		f := web.NewForm("", "", sch, map[string]string{"email": current.User.Email}, nil)
		for i := range f.Inputs {
			f.Inputs[i].ReadOnly = true
		}
		return f
	}
	return web.NewForm(base+"/email", loc.Get(localization.KeySave), sch, values, errs)
}

func (h *Handler) cell(base string, s model.Session, current *model.SessionData, loc localization.Localization) web.SessionCell {
	ua := h.devices.Parse(s.UserAgent)
	isCurrent := s.Token == current.Session.Token || (s.ID != "" && s.ID == current.Session.ID)

	submit := loc.Get(localization.KeyRevoke)
	if isCurrent {
		submit = loc.Get(localization.KeySignOut)
	}
	revoke := &web.Form{Action: base + "/sessions/revoke", Submit: submit}
	revoke.WithHidden("token", s.Token)

	return web.SessionCell{
		Token:       s.Token,
		Icon:        device.Icon(ua),
		Description: device.Describe(ua),
		Current:     isCurrent,
		IPAddress:   s.IPAddress,
		Revoke:      revoke,
	}
}
