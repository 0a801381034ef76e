package email

import "html/template"

const baseStyle = `
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
        .button { display: inline-block; color: white !important; padding: 12px 24px; margin: 0 10px; text-decoration: none; border-radius: 5px; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
`

var templates = template.Must(template.New("emails").Funcs(template.FuncMap{
	"money": formatMoney,
}).Parse(`
{{define "approvalRequest"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>{{.Style}}</style></head>
<body>
<div class="container">
    <div class="header" style="background-color: #f4f4f4;">
        <h1>New user registered</h1>
        <p>Approval required</p>
    </div>
    <div class="content">
        <p>A new user signed up and is waiting for your approval:</p>
        <p><strong>Name:</strong> {{.Applicant.Name}}</p>
        <p><strong>Email:</strong> {{.Applicant.Email}}</p>
        {{with .Applicant.RazonSocial}}<p><strong>Razon social:</strong> {{.}}</p>{{end}}
        {{with .Applicant.CUIT}}<p><strong>CUIT:</strong> {{.}}</p>{{end}}
        {{with .Applicant.Phone}}<p><strong>Phone:</strong> {{.}}</p>{{end}}
        {{with .Applicant.Localidad}}<p><strong>Localidad:</strong> {{.}}{{with $.Applicant.Provincia}}, {{.}}{{end}}</p>{{end}}
        <p><strong>Registered at:</strong> {{.Applicant.RegisteredAt.Format "2006-01-02 15:04"}}</p>
        <p><strong>Requested roles:</strong> {{range $i, $r := .Applicant.Roles}}{{if $i}}, {{end}}{{$r}}{{end}}</p>
        <p style="text-align: center; margin: 30px 0;">
            <a href="{{.ApproveURL}}" class="button" style="background-color: #28a745;">APPROVE USER</a>
            <a href="{{.RejectURL}}" class="button" style="background-color: #dc3545;">REJECT USER</a>
        </p>
        <p><small>This decision cannot be undone. The user is notified automatically.</small></p>
    </div>
</div>
</body>
</html>{{end}}

{{define "approvalDecision"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>{{.Style}}</style></head>
<body>
<div class="container">
    {{if .Approved}}
    <div class="header" style="background-color: #28a745; color: white;"><h1>Account approved</h1></div>
    <div class="content">
        <h2>Hello {{.Name}},</h2>
        <p>Your account has been approved by our administrator.</p>
        <p>You can now sign in with <strong>{{.Email}}</strong> and the password you registered.</p>
    </div>
    {{else}}
    <div class="header" style="background-color: #dc3545; color: white;"><h1>Account not approved</h1></div>
    <div class="content">
        <h2>Hello {{.Name}},</h2>
        <p>We are sorry to let you know that your registration has not been approved.</p>
        <p>If you have questions about this decision, please contact our support team.</p>
    </div>
    {{end}}
</div>
</body>
</html>{{end}}

{{define "passwordReset"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>{{.Style}}</style></head>
<body>
<div class="container">
    <div class="header" style="background-color: #4F46E5; color: white;"><h1>Password Reset Request</h1></div>
    <div class="content">
        <h2>Reset your password</h2>
        <p>You requested to reset your password. Click the button below to create a new password.</p>
        <a href="{{.ResetLink}}" class="button" style="background-color: #4F46E5;">Reset Password</a>
        <p>Or copy and paste this link into your browser:</p>
        <p style="word-break: break-all; color: #4F46E5;">{{.ResetLink}}</p>
        <p style="margin-top: 30px;">If you didn't request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
    </div>
    <div class="footer"><p>This link will expire in 1 hour.</p></div>
</div>
</body>
</html>{{end}}

{{define "order"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>{{.Style}}</style></head>
<body>
<div class="container">
    <div class="header" style="color: #6E2864;"><h1>New order received</h1></div>
    <div class="content">
        <p><strong>Name:</strong> {{.Order.Name}}</p>
        {{with .Order.Surname}}<p><strong>Surname:</strong> {{.}}</p>{{end}}
        <p><strong>Phone:</strong> {{.Order.Phone}}</p>
        <p><strong>Products:</strong></p>
        <ul>
        {{range .Order.Lines}}
            <li><strong>{{.Title}}</strong> x{{.Quantity}} - ${{money .Subtotal}}{{with .Description}}<br/><small>{{.}}</small>{{end}}</li>
        {{end}}
        </ul>
        <p><strong>Total:</strong> ${{money .Order.Total}}</p>
    </div>
    <div class="footer">This message was sent automatically.</div>
</div>
</body>
</html>{{end}}

{{define "contact"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>{{.Style}}</style></head>
<body>
<div class="container">
    <div class="header" style="color: #6E2864;"><h1>New contact request</h1></div>
    <div class="content">
        <p><strong>Name:</strong> {{.Contact.Name}}</p>
        <p><strong>Email:</strong> {{.Contact.Email}}</p>
        <p><strong>Phone:</strong> {{.Contact.Phone}}</p>
        <p><strong>Localidad:</strong> {{.Contact.Localidad}}</p>
        <p><strong>Company:</strong> {{.Contact.Empresa}}</p>
        <p><strong>Activity:</strong> {{.Contact.Actividad}}</p>
        <p><strong>Quote for:</strong></p>
        <ul>{{range .Contact.Cotizar}}<li>{{.}}</li>{{end}}</ul>
        <p><strong>Message:</strong></p>
        <p>{{.Contact.Message}}</p>
    </div>
    <div class="footer">This message was sent automatically.</div>
</div>
</body>
</html>{{end}}
`))
