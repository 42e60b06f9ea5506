package localization

var defaults = map[string]string{
	KeyEmail:                      "Email",
	KeyEmailPlaceholder:           "m@example.com",
	KeyEmailRequired:              "Email address is required",
	KeyEmailInvalid:               "Email address is invalid",
	KeyPassword:                   "Password",
	KeyPasswordPlaceholder:        "Password",
	KeyPasswordRequired:           "Password is required",
	KeyPasswordTooShort:           "Password is too short",
	KeyPasswordTooLong:            "Password is too long",
	KeyPasswordInvalid:            "Password is invalid",
	KeyPasswordsDoNotMatch:        "Passwords do not match",
	KeyConfirmPassword:            "Confirm Password",
	KeyConfirmPasswordPlaceholder: "Confirm Password",
	KeyConfirmPasswordRequired:    "Confirm password is required",
	KeyNewPassword:                "New Password",
	KeyNewPasswordPlaceholder:     "New Password",
	KeyNewPasswordRequired:        "New password is required",
	KeyName:                       "Name",
	KeyNamePlaceholder:            "Name",
	KeyUsername:                   "Username",
	KeyUsernamePlaceholder:        "Username",
	KeyIsRequired:                 "is required",
	KeyIsInvalid:                  "is invalid",
	KeyRememberMe:                 "Remember me",

	KeySignIn:                    "Sign In",
	KeySignInAction:              "Login",
	KeySignInDescription:         "Enter your email below to login to your account",
	KeySignUp:                    "Sign Up",
	KeySignUpAction:              "Create an account",
	KeySignUpDescription:         "Enter your information to create an account",
	KeySignUpEmail:               "Check your email for the verification link.",
	KeySignOut:                   "Sign Out",
	KeyMagicLink:                 "Magic Link",
	KeyMagicLinkAction:           "Send magic link",
	KeyMagicLinkDescription:      "Enter your email to receive a magic link",
	KeyMagicLinkEmail:            "Check your email for the magic link",
	KeyEmailOTP:                  "Email Code",
	KeyEmailOTPSendAction:        "Send code",
	KeyEmailOTPVerifyAction:      "Verify code",
	KeyEmailOTPDescription:       "Enter your email to receive a code",
	KeyEmailOTPVerificationSent:  "Please enter the code sent to your email",
	KeyOneTimePassword:           "One-Time Password",
	KeyForgotPassword:            "Forgot Password",
	KeyForgotPasswordAction:      "Send reset link",
	KeyForgotPasswordDescription: "Enter your email to reset your password",
	KeyForgotPasswordEmail:       "Check your email for the password reset link.",
	KeyForgotPasswordLink:        "Forgot your password?",
	KeyResetPassword:             "Reset Password",
	KeyResetPasswordAction:       "Save new password",
	KeyResetPasswordDescription:  "Enter your new password below",
	KeyResetPasswordSuccess:      "Password reset successfully",
	KeyResetPasswordInvalidToken: "Invalid reset password link",
	KeyTwoFactor:                 "Two-Factor",
	KeyTwoFactorAction:           "Verify code",
	KeyTwoFactorPrompt:           "Two-Factor Authentication",
	KeyTwoFactorCode:             "Authentication code",
	KeyTrustDevice:               "Trust this device",
	KeyRecoverAccount:            "Recover Account",
	KeyRecoverAccountAction:      "Recover account",
	KeyRecoverAccountDescription: "Please enter a backup code to access your account",
	KeyBackupCode:                "Backup Code",
	KeyAlreadyHaveAnAccount:      "Already have an account?",
	KeyDontHaveAnAccount:         "Don't have an account?",
	KeyUseAnotherMethod:          "Use another method",
	KeyGoBack:                    "Go back",

	KeySettings:                   "Settings",
	KeyEmailDescription:           "Enter the email address you want to use to log in.",
	KeyEmailInstructions:          "Please enter a valid email address.",
	KeyEmailIsTheSame:             "Email is the same",
	KeyEmailVerifyChange:          "Please check your email to verify the change",
	KeyEmailVerification:          "Check your email for the verification link.",
	KeyUpdatedSuccessfully:        "updated successfully",
	KeyVerifyYourEmail:            "Verify Your Email",
	KeyVerifyYourEmailDescription: "Please verify your email address. Check your inbox for the verification email.",
	KeyResendVerificationEmail:    "Resend Verification Email",
	KeySave:                       "Save",
	KeySessions:                   "Sessions",
	KeySessionsDescription:        "Manage your active sessions and revoke access.",
	KeyCurrentSession:             "Current Session",
	KeyRevoke:                     "Revoke",

	KeyRequestFailed: "Request failed",

	// Backend error codes
	"USER_ALREADY_EXISTS":          "User already exists",
	"USERNAME_IS_ALREADY_TAKEN":    "Username is already taken",
	"INVALID_EMAIL":                "Invalid email",
	"INVALID_PASSWORD":             "Invalid password",
	"INVALID_EMAIL_OR_PASSWORD":    "Invalid email or password",
	"INVALID_USERNAME_OR_PASSWORD": "Invalid username or password",
	"INVALID_TOKEN":                "Invalid token",
	"EMAIL_NOT_VERIFIED":           "Email not verified",
	"USER_NOT_FOUND":               "User not found",
	"PASSWORD_TOO_SHORT":           "Password too short",
	"PASSWORD_TOO_LONG":            "Password too long",
	"INVALID_CODE":                 "Invalid code",
	"INVALID_OTP":                  "Invalid OTP",
	"OTP_EXPIRED":                  "OTP expired",
	"TOO_MANY_ATTEMPTS":            "Too many attempts",
	"INVALID_TWO_FACTOR_COOKIE":    "Invalid two factor cookie",
	"INVALID_BACKUP_CODE":          "Invalid backup code",
	"SESSION_EXPIRED":              "Session expired. Re-authenticate to perform this action.",
	"FAILED_TO_CREATE_USER":        "Failed to create user",
	"EMAIL_CAN_NOT_BE_UPDATED":     "Email can not be updated",
	"SERVICE_UNAVAILABLE":          "The authentication service is unavailable, please try again later",
}
