package model

// ViewName identifies one of the mutually exclusive auth views.
type ViewName string

const (
	ViewSignIn         ViewName = "signIn"
	ViewSignUp         ViewName = "signUp"
	ViewMagicLink      ViewName = "magicLink"
	ViewEmailOTP       ViewName = "emailOTP"
	ViewForgotPassword ViewName = "forgotPassword"
	ViewResetPassword  ViewName = "resetPassword"
	ViewTwoFactor      ViewName = "twoFactor"
	ViewRecoverAccount ViewName = "recoverAccount"
	ViewSignOut        ViewName = "signOut"
	ViewCallback       ViewName = "callback"
)

// AllViews lists every view in a stable order.
func AllViews() []ViewName {
	return []ViewName{
		ViewSignIn,
		ViewSignUp,
		ViewMagicLink,
		ViewEmailOTP,
		ViewForgotPassword,
		ViewResetPassword,
		ViewTwoFactor,
		ViewRecoverAccount,
		ViewSignOut,
		ViewCallback,
	}
}

// DefaultViewPaths returns the URL segment used for each view.
func DefaultViewPaths() map[ViewName]string {
	return map[ViewName]string{
		ViewSignIn:         "sign-in",
		ViewSignUp:         "sign-up",
		ViewMagicLink:      "magic-link",
		ViewEmailOTP:       "email-otp",
		ViewForgotPassword: "forgot-password",
		ViewResetPassword:  "reset-password",
		ViewTwoFactor:      "two-factor",
		ViewRecoverAccount: "recover-account",
		ViewSignOut:        "sign-out",
		ViewCallback:       "callback",
	}
}

// ViewPaths is a bidirectional mapping between views and URL segments.
// It is immutable once built.
type ViewPaths struct {
	byView map[ViewName]string
	byPath map[string]ViewName
}

// NewViewPaths builds the mapping from the defaults, replacing any segment
// present in overrides. Unknown views in overrides are ignored.
func NewViewPaths(overrides map[ViewName]string) ViewPaths {
	byView := DefaultViewPaths()
	for view, path := range overrides {
		if _, ok := byView[view]; ok && path != "" {
			byView[view] = path
		}
	}

	byPath := make(map[string]ViewName, len(byView))
	for view, path := range byView {
		byPath[path] = view
	}

	return ViewPaths{byView: byView, byPath: byPath}
}

// Path returns the URL segment for a view.
func (p ViewPaths) Path(view ViewName) string {
	if p.byView == nil {
		return DefaultViewPaths()[view]
	}
	return p.byView[view]
}

// View returns the view mapped to a URL segment.
func (p ViewPaths) View(segment string) (ViewName, bool) {
	if p.byPath == nil {
		p = NewViewPaths(nil)
	}
	view, ok := p.byPath[segment]
	return view, ok
}
