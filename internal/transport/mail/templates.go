package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// OTPPurpose selects the subject line of an OTP email.
type OTPPurpose string

const (
	OTPRegistration  OTPPurpose = "registration"
	OTPPartnerLogin  OTPPurpose = "partner_login"
	OTPPartnerSignup OTPPurpose = "partner_signup"
)

func OTPMessage(to, code string, purpose OTPPurpose, ttl time.Duration) Message {
	subject := "Your 1500rs registration OTP"
	switch purpose {
	case OTPPartnerLogin:
		subject = "Your hotel admin login OTP"
	case OTPPartnerSignup:
		subject = "Your 1500rs hotel partner OTP"
	}
	return Message{
		To:      to,
		Subject: subject,
		Text:    fmt.Sprintf("Your OTP code is: %s\nIt expires in %s.", code, humanizeTTL(ttl)),
	}
}

func humanizeTTL(ttl time.Duration) string {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	switch {
	case minutes <= 0:
		return fmt.Sprintf("%d seconds", int(ttl/time.Second))
	case minutes == 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

type ApprovalRequest struct {
	HotelName  string
	Country    string
	City       string
	Address    string
	ApproveURL string
	RejectURL  string
	LinkTTL    time.Duration
}

var approvalHTML = template.Must(template.New("approval").Parse(`<!doctype html>
<html>
  <body style="margin:0;padding:0;background:#f6f7fb;font-family:Arial,Helvetica,sans-serif;">
    <div style="max-width:640px;margin:0 auto;padding:24px;">
      <div style="background:#ffffff;border:1px solid #e5e7eb;border-radius:16px;padding:20px;">
        <div style="font-size:18px;font-weight:700;color:#0f172a;">Hotel approval request</div>
        <div style="margin-top:10px;font-size:14px;color:#334155;">A hotel partner has completed their listing and is requesting approval.</div>
        <div style="margin-top:16px;background:#f8fafc;border:1px solid #e2e8f0;border-radius:12px;padding:12px;">
          <div style="font-size:14px;color:#334155;"><b>Name:</b> {{.HotelName}}</div>
          <div style="font-size:14px;color:#334155;"><b>Country:</b> {{.Country}}</div>
          <div style="font-size:14px;color:#334155;"><b>City:</b> {{.City}}</div>
          <div style="font-size:14px;color:#334155;"><b>Address:</b> {{.Address}}</div>
        </div>
        <div style="margin-top:14px;">
          <a href="{{.ApproveURL}}" style="display:inline-block;background:#16a34a;color:#ffffff;text-decoration:none;padding:12px 16px;border-radius:10px;font-weight:700;">Approve</a>
          <a href="{{.RejectURL}}" style="display:inline-block;background:#dc2626;color:#ffffff;text-decoration:none;padding:12px 16px;border-radius:10px;font-weight:700;">Reject</a>
        </div>
        <div style="margin-top:16px;font-size:12px;color:#64748b;">These links expire in {{.Expiry}}.</div>
      </div>
    </div>
  </body>
</html>`))

func ApprovalRequestMessage(to string, req ApprovalRequest) (Message, error) {
	expiry := humanizeDays(req.LinkTTL)
	text := strings.Join([]string{
		"A hotel partner is requesting approval to go live.",
		"",
		"Hotel name: " + req.HotelName,
		"Country: " + req.Country,
		"City: " + req.City,
		"Address: " + req.Address,
		"",
		"Approve:",
		req.ApproveURL,
		"",
		"Reject:",
		req.RejectURL,
		"",
		"These links expire in " + expiry + ".",
	}, "\n")

	var html bytes.Buffer
	err := approvalHTML.Execute(&html, struct {
		ApprovalRequest
		Expiry string
	}{req, expiry})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "New hotel approval request: " + req.HotelName,
		Text:    text,
		HTML:    html.String(),
	}, nil
}

func humanizeDays(ttl time.Duration) string {
	days := int(ttl / (24 * time.Hour))
	if days <= 1 {
		return humanizeTTL(ttl)
	}
	return fmt.Sprintf("%d days", days)
}
