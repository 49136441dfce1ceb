package api

import "net/http"

// mountUI serves a minimal status page over the JSON endpoints: the rule
// list and the most recent runs, refreshed from /rules and /runs.
func (s *Server) mountUI() {
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(statusPage))
	})
}

const statusPage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>organize</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; color: #222; }
  h1 { font-size: 1.3rem; }
  table { border-collapse: collapse; margin-bottom: 2rem; width: 100%; }
  th, td { border: 1px solid #ccc; padding: 0.35rem 0.6rem; text-align: left; font-size: 0.9rem; }
  th { background: #f4f4f4; }
  .failed { color: #b00020; }
  .completed { color: #1b7f3b; }
</style>
</head>
<body>
<h1>organize</h1>
<h2>Rules</h2>
<table id="rules"><thead><tr>
  <th>Name</th><th>Enabled</th><th>Priority</th><th>Folder</th><th>Actions</th>
</tr></thead><tbody></tbody></table>
<h2>Recent runs</h2>
<table id="runs"><thead><tr>
  <th>Started</th><th>Rule</th><th>File</th><th>Status</th><th>Error</th>
</tr></thead><tbody></tbody></table>
<script>
async function refresh() {
  const rules = await (await fetch('/rules')).json();
  const rbody = document.querySelector('#rules tbody');
  rbody.innerHTML = '';
  for (const r of rules) {
    const row = rbody.insertRow();
    row.insertCell().textContent = r.name;
    row.insertCell().textContent = r.enabled ? 'yes' : 'no';
    row.insertCell().textContent = r.priority;
    row.insertCell().textContent = (r.trigger && r.trigger.config) ? r.trigger.config.folder : '';
    row.insertCell().textContent = (r.actions || []).map(a => a.type).join(' → ');
  }
  const runs = await (await fetch('/runs')).json();
  const tbody = document.querySelector('#runs tbody');
  tbody.innerHTML = '';
  for (const run of runs) {
    const row = tbody.insertRow();
    row.insertCell().textContent = new Date(run.startedAt).toLocaleString();
    row.insertCell().textContent = run.ruleName;
    row.insertCell().textContent = run.path;
    const st = row.insertCell();
    st.textContent = run.status;
    st.className = run.status;
    row.insertCell().textContent = run.error || '';
  }
}
refresh();
setInterval(refresh, 5000);
</script>
</body>
</html>
`
