package server

import "html/template"

// shellTemplate is the single-page shell served at /. The selected page
// document goes into the iframe's srcdoc attribute; load failures render
// an inline error element in its place.
const shellTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.SiteTitle}}{{if .PageTitle}} - {{.PageTitle}}{{end}}</title>
<style>
  body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif; display: flex; flex-direction: column; height: 100vh; }
  .site-nav { display: flex; gap: 0.25rem; padding: 0.5rem 1rem; border-bottom: 1px solid #d0d7de; background: #f6f8fa; }
  .nav-item { padding: 0.35rem 0.75rem; border-radius: 6px; color: #24292f; text-decoration: none; cursor: pointer; }
  .nav-item:hover { background: #eaeef2; }
  .nav-item[aria-current="page"] { background: #0969da; color: #fff; }
  .content { flex: 1; border: 0; width: 100%; }
  .content-error { padding: 2rem; }
</style>
</head>
<body>
{{.Nav}}
{{if .HasError}}<div class="content content-error">{{.ErrorHTML}}</div>
{{else if .HasPage}}<iframe class="content" title="{{.PageTitle}}" srcdoc="{{.Page}}"></iframe>
{{end}}<script>
(function () {
  var items = document.querySelectorAll('[role=menuitem]');
  for (var i = 0; i < items.length; i++) {
    items[i].addEventListener('keydown', function (e) {
      if (e.key === 'Enter' || e.key === ' ') {
        e.preventDefault();
        window.location = this.href;
      }
    });
  }
})();
</script>
{{if .LiveReload}}<script>
(function () {
  function connect() {
    var ws = new WebSocket('ws://' + location.host + '/ws/reload');
    ws.onmessage = function (e) {
      if (e.data === 'reload') {
        location.reload();
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>
{{end}}</body>
</html>
`

var shellTmpl = template.Must(template.New("shell").Parse(shellTemplate))

// shellData feeds shellTemplate. Page holds the raw page document; the
// template's attribute context escapes it into srcdoc.
type shellData struct {
	SiteTitle  string
	Nav        template.HTML
	HasPage    bool
	HasError   bool
	PageTitle  string
	Page       string
	ErrorHTML  template.HTML
	LiveReload bool
}
