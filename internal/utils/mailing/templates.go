package mailing

import "fmt"

const (
	SubjectConfirmEmail  = "Confirm your email"
	SubjectResetPassword = "Reset your password"
)

func ConfirmEmailBody(appURL, code string) string {
	link := fmt.Sprintf("%s/api/v1/users/verify?code=%s", appURL, code)
	return fmt.Sprintf(`<p>Welcome!</p><p>Confirm your email address by opening <a href="%s">this link</a>.</p>`, link)
}

func ResetPasswordBody(appURL, code string) string {
	link := fmt.Sprintf("%s/reset-password?code=%s", appURL, code)
	return fmt.Sprintf(`<p>A password reset was requested for your account.</p><p>Open <a href="%s">this link</a> to choose a new password. The link expires in one hour.</p>`, link)
}
