package auth

import (
	"html/template"
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/logging"
)

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
    <div style="max-width: 500px; margin: 0 auto;">
        <h1 style="color: {{.Color}};">{{.Title}}</h1>
        <p>{{.Message}}</p>
        {{if .Detail}}<p>{{.Detail}}</p>{{end}}
    </div>
</body>
</html>
`))

type pageData struct {
	Title   string
	Color   string
	Message string
	Detail  string
}

const (
	colorSuccess = "#28a745"
	colorDanger  = "#dc3545"
)

func renderPage(w http.ResponseWriter, r *http.Request, data pageData, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := resultPage.Execute(w, data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to render page", "error", err.Error())
	}
}

// renderErrorPage shows err to an administrator following an email link.
func renderErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"
	if appErr, ok := apperror.As(err); ok {
		status = appErr.Status
		message = appErr.Message
	} else {
		logging.GetLoggerFromContext(r.Context()).Error("approval failed", "error", err.Error())
	}

	renderPage(w, r, pageData{
		Title:   "Request could not be completed",
		Color:   colorDanger,
		Message: message,
	}, status)
}
