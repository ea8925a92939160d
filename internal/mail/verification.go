package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// AppName appears in the subject and body of outgoing e-mails.
const AppName = "SpeakFree"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="en" dir="ltr">
<head><title>Your {{.AppName}} Verification Code</title></head>
<body style="font-family: Roboto, Verdana, sans-serif; background-color: #ffffff;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="font-size: 24px; color: #333333;">Hello {{.Username}},</h2>
  <p style="font-size: 16px; color: #555555;">Thank you for registering with {{.AppName}}! To complete your registration, please use the following one-time verification code:</p>
  <p style="background: #f6f6f6; padding: 24px; text-align: center; font-size: 32px; font-weight: 700; letter-spacing: 4px; color: #333333;">{{.Code}}</p>
  <p style="font-size: 16px; color: #e74c3c;">This code will expire in {{.Validity}}.</p>
  <p style="font-size: 16px; color: #555555;">If you didn't request this code, please ignore this e-mail.</p>
  <hr style="border: none; border-top: 1px solid #eeeeee;">
  <p style="font-size: 14px; color: #999999;">&copy; {{.Year}} {{.AppName}}. All rights reserved.</p>
</div>
</body>
</html>`))

type verificationData struct {
	AppName  string
	Username string
	Code     string
	Validity string
	Year     int
}

// RenderVerification builds the verification e-mail for username.
func RenderVerification(to, username, code string, validity time.Duration) (Envelope, error) {
	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, verificationData{
		AppName:  AppName,
		Username: username,
		Code:     code,
		Validity: HumanizeValidity(validity),
		Year:     time.Now().Year(),
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		To:      to,
		Subject: AppName + " Verification Code",
		HTML:    buf.String(),
	}, nil
}

// HumanizeValidity renders d as "1 hour", "90 minutes", "2 hours".
func HumanizeValidity(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
