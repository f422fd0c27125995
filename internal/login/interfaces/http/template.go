package http

import (
	"html/template"

	login "bluemoon-portal/internal/login/domain"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="vi">
<head>
<meta charset="utf-8">
<title>Đăng nhập - Blue Moon</title>
</head>
<body class="welcome" style="background-image: url('{{.BackgroundURL}}')">
<div class="login-card">
  <h1>PHẦN MỀM QUẢN LÝ CHUNG CƯ BLUE MOON</h1>
  <p class="subtitle">ĐĂNG NHẬP DƯỚI VAI TRÒ</p>
  <div class="roles">
  {{- range .Options}}
    <a href="/login?role={{.Role}}" data-role="{{.Role}}" class="role{{if .Selected}} role-active{{end}}">{{.Label}}</a>
  {{- end}}
  </div>
  {{- if .Message}}
  <p class="login-message">{{.Message}}</p>
  {{- end}}
  <form method="post" action="/login">
    <input type="hidden" name="role" value="{{.Form.Role}}">
    <label for="username">Tên tài khoản</label>
    <input type="text" id="username" name="username" value="{{.Form.Username}}">
    <label for="password">Mật khẩu</label>
    <input type="password" id="password" name="password">
    <button type="submit">Đăng nhập</button>
  </form>
</div>
</body>
</html>
`

type pageData struct {
	BackgroundURL string
	Form          login.Form
	Options       []login.Option
	Message       string
}

func parsePage() (*template.Template, error) {
	return template.New("login").Parse(pageTemplate)
}
