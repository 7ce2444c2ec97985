package api

import "net/http"

func (a *API) handleWebInterface(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Transaction Minimiser</title>
<style>
body { font-family: sans-serif; max-width: 760px; margin: 2em auto; }
textarea { width: 100%; height: 10em; font-family: monospace; }
pre { background: #f4f4f4; padding: 1em; }
</style>
</head>
<body>
<h1>Transaction Minimiser</h1>
<label>Participants (space separated)<br><input id="people" size="60" value="A B C"></label>
<p>Transactions, one "giver taker amount" per line</p>
<textarea id="txs">A B 50
B C 30</textarea>
<p><button onclick="minimise()">Minimise</button></p>
<pre id="out"></pre>
<script>
async function minimise() {
  const participants = document.getElementById('people').value.trim().split(/\s+/);
  const out = document.getElementById('out');
  const lines = document.getElementById('txs').value.split('\n').map(l => l.trim()).filter(l => l);
  const transactions = [];
  for (const [n, l] of lines.entries()) {
    const fields = l.split(/\s+/);
    const amount = Number(fields[2]);
    if (fields.length !== 3 || !/^-?\d+$/.test(fields[2]) || !Number.isSafeInteger(amount)) {
      out.textContent = 'Error: line ' + (n + 1) + ' must be "giver taker amount" with an integer amount';
      return;
    }
    transactions.push({ giver: fields[0], taker: fields[1], amount });
  }
  const res = await fetch('/api/minimise', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ participants, transactions })
  });
  const data = await res.json();
  if (!res.ok) { out.textContent = 'Error: ' + data.error; return; }
  out.textContent = data.settlements.length === 0
    ? 'No settlement needed'
    : data.settlements.map(s => s.payer + ' pays ' + s.amount + ' to ' + s.payee).join('\n');
}
</script>
</body>
</html>
`
