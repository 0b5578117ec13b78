package mailer

import (
	"bytes"
	"fmt"
)

// VerificationEmailData 邮箱验证邮件数据
type VerificationEmailData struct {
	SiteName  string
	Code      string
	ExpiresIn string // 例如 "10 minutes"
}

// BuildVerificationEmail 构建邮箱验证邮件
func BuildVerificationEmail(to string, data VerificationEmailData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Your %s verification code is: %s\n\n", data.SiteName, data.Code)
	fmt.Fprintf(&buf, "This code expires in %s.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request this code, you can safely ignore this email.\n")

	return Email{
		To:      to,
		Subject: fmt.Sprintf("Your %s verification code", data.SiteName),
		Body:    buf.String(),
	}
}

// ApplicationEmailData 申请状态通知邮件数据
type ApplicationEmailData struct {
	SiteName    string
	FullName    string
	CollegeName string
	Status      string // submitted / approved / rejected
	Reason      string // 拒绝原因（仅rejected时）
}

// BuildApplicationEmail 构建Contributor申请状态通知邮件
func BuildApplicationEmail(to string, data ApplicationEmailData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.FullName)

	var subject string
	switch data.Status {
	case "submitted":
		subject = fmt.Sprintf("%s: contributor application received", data.SiteName)
		fmt.Fprintf(&buf, "We received your contributor application for %s.\n", data.CollegeName)
		buf.WriteString("An admin will review it shortly; you can check the status any time from your profile.\n")
	case "approved":
		subject = fmt.Sprintf("%s: you are now a contributor", data.SiteName)
		fmt.Fprintf(&buf, "Congratulations! Your contributor application for %s has been approved.\n", data.CollegeName)
		buf.WriteString("You can now create posts and events for your college.\n")
	case "rejected":
		subject = fmt.Sprintf("%s: contributor application update", data.SiteName)
		fmt.Fprintf(&buf, "Your contributor application for %s was not approved.\n", data.CollegeName)
		if data.Reason != "" {
			fmt.Fprintf(&buf, "Reason: %s\n", data.Reason)
		}
	default:
		subject = fmt.Sprintf("%s: contributor application update", data.SiteName)
		fmt.Fprintf(&buf, "Your contributor application status is now: %s.\n", data.Status)
	}

	return Email{
		To:      to,
		Subject: subject,
		Body:    buf.String(),
	}
}
