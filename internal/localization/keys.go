package localization

// Message keys. Views and services only ever reference these; the strings
// live in the defaults table and in localization files.
const (
	KeyEmail                      = "email"
	KeyEmailPlaceholder           = "emailPlaceholder"
	KeyEmailRequired              = "emailRequired"
	KeyEmailInvalid               = "emailInvalid"
	KeyPassword                   = "password"
	KeyPasswordPlaceholder        = "passwordPlaceholder"
	KeyPasswordRequired           = "passwordRequired"
	KeyPasswordTooShort           = "passwordTooShort"
	KeyPasswordTooLong            = "passwordTooLong"
	KeyPasswordInvalid            = "passwordInvalid"
	KeyPasswordsDoNotMatch        = "passwordsDoNotMatch"
	KeyConfirmPassword            = "confirmPassword"
	KeyConfirmPasswordPlaceholder = "confirmPasswordPlaceholder"
	KeyConfirmPasswordRequired    = "confirmPasswordRequired"
	KeyNewPassword                = "newPassword"
	KeyNewPasswordPlaceholder     = "newPasswordPlaceholder"
	KeyNewPasswordRequired        = "newPasswordRequired"
	KeyName                       = "name"
	KeyNamePlaceholder            = "namePlaceholder"
	KeyUsername                   = "username"
	KeyUsernamePlaceholder        = "usernamePlaceholder"
	KeyIsRequired                 = "isRequired"
	KeyIsInvalid                  = "isInvalid"
	KeyRememberMe                 = "rememberMe"

	KeySignIn                    = "signIn"
	KeySignInAction              = "signInAction"
	KeySignInDescription         = "signInDescription"
	KeySignUp                    = "signUp"
	KeySignUpAction              = "signUpAction"
	KeySignUpDescription         = "signUpDescription"
	KeySignUpEmail               = "signUpEmail"
	KeySignOut                   = "signOut"
	KeyMagicLink                 = "magicLink"
	KeyMagicLinkAction           = "magicLinkAction"
	KeyMagicLinkDescription      = "magicLinkDescription"
	KeyMagicLinkEmail            = "magicLinkEmail"
	KeyEmailOTP                  = "emailOTP"
	KeyEmailOTPSendAction        = "emailOTPSendAction"
	KeyEmailOTPVerifyAction      = "emailOTPVerifyAction"
	KeyEmailOTPDescription       = "emailOTPDescription"
	KeyEmailOTPVerificationSent  = "emailOTPVerificationSent"
	KeyOneTimePassword           = "oneTimePassword"
	KeyForgotPassword            = "forgotPassword"
	KeyForgotPasswordAction      = "forgotPasswordAction"
	KeyForgotPasswordDescription = "forgotPasswordDescription"
	KeyForgotPasswordEmail       = "forgotPasswordEmail"
	KeyForgotPasswordLink        = "forgotPasswordLink"
	KeyResetPassword             = "resetPassword"
	KeyResetPasswordAction       = "resetPasswordAction"
	KeyResetPasswordDescription  = "resetPasswordDescription"
	KeyResetPasswordSuccess      = "resetPasswordSuccess"
	KeyResetPasswordInvalidToken = "resetPasswordInvalidToken"
	KeyTwoFactor                 = "twoFactor"
	KeyTwoFactorAction           = "twoFactorAction"
	KeyTwoFactorPrompt           = "twoFactorPrompt"
	KeyTwoFactorCode             = "twoFactorCode"
	KeyTrustDevice               = "trustDevice"
	KeyRecoverAccount            = "recoverAccount"
	KeyRecoverAccountAction      = "recoverAccountAction"
	KeyRecoverAccountDescription = "recoverAccountDescription"
	KeyBackupCode                = "backupCode"
	KeyAlreadyHaveAnAccount      = "alreadyHaveAnAccount"
	KeyDontHaveAnAccount         = "dontHaveAnAccount"
	KeyUseAnotherMethod          = "useAnotherMethod"
	KeyGoBack                    = "goBack"

	KeySettings                   = "settings"
	KeyEmailDescription           = "emailDescription"
	KeyEmailInstructions          = "emailInstructions"
	KeyEmailIsTheSame             = "emailIsTheSame"
	KeyEmailVerifyChange          = "emailVerifyChange"
	KeyEmailVerification          = "emailVerification"
	KeyUpdatedSuccessfully        = "updatedSuccessfully"
	KeyVerifyYourEmail            = "verifyYourEmail"
	KeyVerifyYourEmailDescription = "verifyYourEmailDescription"
	KeyResendVerificationEmail    = "resendVerificationEmail"
	KeySave                       = "save"
	KeySessions                   = "sessions"
	KeySessionsDescription        = "sessionsDescription"
	KeyCurrentSession             = "currentSession"
	KeyRevoke                     = "revoke"

	KeyRequestFailed = "requestFailed"
)
