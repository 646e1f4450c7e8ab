package web

// indexTemplate is the single server-rendered page. Deliberately plain: no
// external assets.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Candle Viewer</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; text-align: right; }
th { background: #eee; }
.alert-error { color: #a00; border: 1px solid #a00; padding: 0.5em; margin-bottom: 1em; }
.alert-success { color: #070; border: 1px solid #070; padding: 0.5em; margin-bottom: 1em; }
form { margin-bottom: 1em; }
</style>
</head>
<body>
<h1>Candle Viewer</h1>

{{if .Error}}<div class="alert-error">{{.Error}}</div>{{end}}
{{if .Success}}<div class="alert-success">{{.Success}}</div>{{end}}

<form method="post" action="/search">
  <select name="db_type" id="db_type">
    <option value="osakedata" {{if eq .DBType "osakedata"}}selected{{end}}>Stock data</option>
    <option value="analysis" {{if eq .DBType "analysis"}}selected{{end}}>Analysis findings</option>
  </select>
  <input type="text" name="tickers" placeholder="AAPL, MS, ^GSPC">
  <button type="submit">Search</button>
</form>

<form method="post" action="/delete">
  <input type="hidden" name="db_type" value="{{.DBType}}">
  <input type="text" name="delete_tickers" placeholder="symbols to delete">
  <input type="text" name="confirm_delete" placeholder="type yes to confirm">
  <button type="submit">Delete</button>
</form>

<form method="post" action="/fetch_csv">
  <input type="text" name="tickers" placeholder="empty = import whole CSV">
  <button type="submit">Import CSV</button>
</form>

<form method="post" action="/fetch_yfinance">
  <input type="text" name="tickers" placeholder="AAPL, MSFT">
  <button type="submit">Import from Yahoo Finance</button>
</form>

<form method="post" action="/analyze">
  <input type="text" name="tickers" placeholder="empty = analyze everything">
  <button type="submit">Analyze patterns</button>
</form>

{{if .Table}}
<p>
  Searched: {{range $i, $t := .SearchedTerms}}{{if $i}}, {{end}}{{$t}}{{end}} —
  found {{.RecordCount}} rows for
  {{range $i, $s := .FoundSymbols}}{{if $i}}, {{end}}{{$s}}{{end}}
</p>
{{.Table}}
{{end}}

<h2>Available symbols</h2>
<p>
{{if .AvailableSymbols}}
  {{range $i, $s := .AvailableSymbols}}{{if $i}}, {{end}}{{$s}}{{end}}
{{else}}
  (none)
{{end}}
</p>

</body>
</html>
`
