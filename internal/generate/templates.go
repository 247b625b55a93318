package generate

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.ProjectName}} — Project Hub</title>
<style>
  body { font-family: -apple-system, system-ui, sans-serif; max-width: 720px; margin: 3rem auto; padding: 0 1.5rem; color: #1a1a1a; }
  h1 { font-size: 1.75rem; }
  .description { color: #555; }
  .section { margin-top: 2.5rem; }
  .meeting { display: block; margin: 0.5rem 0; padding: 0.75rem 1rem; border: 1px solid #ddd; border-radius: 8px; text-decoration: none; color: inherit; }
  .meeting:hover { border-color: #888; }
  .meeting .date { color: #888; font-size: 0.85rem; }
  .placeholder { color: #888; font-style: italic; }
</style>
</head>
<body>
<h1>{{.ProjectName}}</h1>
<p>Welcome back, {{.Name}}.</p>
{{if .ProjectDescription}}<p class="description">{{.ProjectDescription}}</p>{{end}}
{{range .Sections}}
<div class="section">
  <h2>{{.Title}}</h2>
  <p>{{.Body}}</p>
</div>
{{end}}
<div class="section">
  <h2>Meeting Notes</h2>
  {{if .Meetings}}{{range .Meetings}}
  <a class="meeting" href="{{.ShareURL}}" target="_blank" rel="noopener">
    <span>{{.Title}}</span>
    {{if .Recorded}}<span class="date">{{.Recorded}}</span>{{end}}
  </a>
  {{end}}{{else}}
  <p class="placeholder">{{.Placeholder}}</p>
  {{end}}
</div>
</body>
</html>
`))

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.ProjectName}} — Sign In</title>
<style>
  body { font-family: -apple-system, system-ui, sans-serif; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; background: #fafafa; }
  form { background: #fff; border: 1px solid #ddd; border-radius: 12px; padding: 2rem; width: 320px; }
  h1 { font-size: 1.25rem; margin-top: 0; }
  input[type=password] { width: 100%; padding: 0.6rem; margin: 0.75rem 0; border: 1px solid #ccc; border-radius: 6px; box-sizing: border-box; }
  button { width: 100%; padding: 0.6rem; border: none; border-radius: 6px; background: #1a1a1a; color: #fff; cursor: pointer; }
</style>
</head>
<body>
<form method="post" action="{{.LoginPath}}">
  <h1>{{.ProjectName}}</h1>
  <p>Enter the password you were given to access the hub.</p>
  <input type="password" name="password" placeholder="Password" autofocus required>
  {{if .Redirect}}<input type="hidden" name="redirect" value="{{.Redirect}}">{{end}}
  <button type="submit">Enter</button>
</form>
</body>
</html>
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
<body style="font-family: -apple-system, system-ui, sans-serif; color: #1a1a1a;">
  <h2>Hi {{.Name}},</h2>
  <p>Your <strong>{{.ProjectName}}</strong> project hub is ready.</p>
  <p>
    Access it here: <a href="{{.AccessURL}}">{{.AccessURL}}</a><br>
    Password: <code>{{.Password}}</code>
  </p>
  <p>Meeting notes, project updates, and shared documents will all live there as we go.</p>
  <p>— Elijah</p>
</body>
</html>
`))

var meetingTmpl = template.Must(template.New("meeting").Parse(`<!doctype html>
<html>
<body style="font-family: -apple-system, system-ui, sans-serif; color: #1a1a1a;">
  <h2>Hi {{.Name}},</h2>
  <p>Notes from <strong>{{.MeetingTitle}}</strong> are up.</p>
  <p>
    <a href="{{.ShareURL}}">Watch the recording</a><br>
    Or find it on your <a href="{{.AccessURL}}">project hub</a>.
  </p>
  <p>— Elijah</p>
</body>
</html>
`))
