package form

import (
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
)

// Schema returns the schema a view renders. The email OTP view renders
// the verify schema on its second step. Views without a form return nil.
func (s *Service) Schema(view model.ViewName, req Request, step string) *schema.Schema {
	switch view {
	case model.ViewSignIn:
		return schema.BuildSignIn(s.cfg, s.loc)
	case model.ViewSignUp:
		return s.SignUpSchema(req)
	case model.ViewMagicLink, model.ViewForgotPassword:
		return schema.BuildEmail(s.loc)
	case model.ViewEmailOTP:
		if step == StepVerify {
			return schema.BuildEmailOTPVerify(s.loc)
		}
		return schema.BuildEmail(s.loc)
	case model.ViewResetPassword:
		return s.ResetPasswordSchema(req)
	case model.ViewTwoFactor:
		return schema.BuildTwoFactor(s.loc)
	case model.ViewRecoverAccount:
		return schema.BuildCode("code", localization.KeyBackupCode, s.loc)
	default:
		return nil
	}
}
