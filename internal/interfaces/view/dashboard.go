package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// Dashboard главная страница. nil snapshot рендерит заглушку ожидания данных,
// дальше страница обновляется через websocket.
func Dashboard(snapshot *entity.Snapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>Ops Dashboard</title>`)
		p.raw(`<link rel="stylesheet" href="/static/css/style.css"></head><body>`)
		p.raw(`<header><h1>Ops Dashboard</h1>`)

		if snapshot == nil {
			p.raw(`<p class="muted" id="status">Waiting for the first snapshot…</p></header>`)
			p.raw(`<main id="dashboard"></main>`)
			p.raw(`<script src="/static/js/websocket.js"></script></body></html>`)
			return p.err
		}

		p.raw(`<p class="muted" id="status">`)
		p.text(snapshot.Meta.Environment)
		p.raw(` · `)
		p.text(snapshot.Meta.TimeRange.String())
		p.raw(` · generated `)
		p.text(snapshot.Meta.GeneratedAt.String())
		p.raw(`</p></header><main id="dashboard">`)

		renderSummary(p, snapshot.Summary)
		renderKPIs(p, snapshot.KPIs)
		renderAPIs(p, snapshot.APIs)
		renderConsumers(p, snapshot.Consumers)
		renderStatusCodes(p, snapshot.StatusCodes)
		renderAlerts(p, snapshot.Alerts)

		p.raw(`</main><script src="/static/js/websocket.js"></script></body></html>`)
		return p.err
	})
}

func renderSummary(p *printer, s entity.Summary) {
	p.raw(`<section class="cards" id="summary">`)
	card(p, "APIs", strconv.Itoa(s.TotalAPIs))
	card(p, "Requests", humanize.Comma(s.TotalRequests))
	card(p, "Error rate", formatPercent(s.ErrorRatePercent))
	card(p, "Avg latency", humanize.Comma(s.AvgLatencyMs)+" ms")
	card(p, "Active consumers", strconv.Itoa(s.ActiveConsumers))
	p.raw(`</section>`)
}

func renderKPIs(p *printer, kpis []entity.KPI) {
	p.raw(`<section class="cards" id="kpis">`)
	for _, k := range kpis {
		label := k.Label
		if label == "" {
			label = k.ID.String()
		}
		card(p, label, humanize.FormatFloat("#,###.##", k.Value)+" "+k.Unit)
	}
	p.raw(`</section>`)
}

func renderAPIs(p *printer, apis []entity.APIEntry) {
	p.raw(`<section><h2>Top APIs</h2><table id="apis"><thead><tr>`)
	p.raw(`<th>Name</th><th>Requests</th><th>p95, ms</th><th>Errors</th></tr></thead><tbody>`)
	for _, a := range apis {
		p.raw(`<tr><td>`)
		p.text(a.Name)
		p.raw(`</td><td>`)
		p.text(humanize.Comma(a.Requests))
		p.raw(`</td><td>`)
		p.text(humanize.Comma(a.P95LatencyMs))
		p.raw(`</td><td>`)
		p.text(formatPercent(a.ErrorRatePercent))
		p.raw(`</td></tr>`)
	}
	p.raw(`</tbody></table></section>`)
}

func renderConsumers(p *printer, consumers []entity.ConsumerEntry) {
	p.raw(`<section><h2>Top consumers</h2><table id="consumers"><thead><tr>`)
	p.raw(`<th>Name</th><th>Requests</th><th>Last seen</th></tr></thead><tbody>`)
	for _, c := range consumers {
		p.raw(`<tr><td>`)
		p.text(c.Name)
		p.raw(`</td><td>`)
		p.text(humanize.Comma(c.Requests))
		p.raw(`</td><td>`)
		if !c.LastSeen.IsZero() {
			p.text(humanize.Time(c.LastSeen.Time()))
		}
		p.raw(`</td></tr>`)
	}
	p.raw(`</tbody></table></section>`)
}

func renderStatusCodes(p *printer, buckets []entity.StatusBucket) {
	p.raw(`<section><h2>Status codes</h2><ul id="status-codes">`)
	for _, b := range buckets {
		p.raw(`<li>`)
		p.text(fmt.Sprintf("%d: %s", b.Code.Int(), humanize.Comma(b.Count)))
		p.raw(`</li>`)
	}
	p.raw(`</ul></section>`)
}

func renderAlerts(p *printer, alerts []entity.Alert) {
	p.raw(`<section><h2>Alerts</h2><ul id="alerts">`)
	for _, a := range alerts {
		p.raw(`<li class="alert alert-`)
		p.text(a.Status.String())
		p.raw(`">`)
		p.text(a.ID + " " + a.Title + " [" + a.Severity.String() + ", " + a.Status.String() + "]")
		p.raw(`</li>`)
	}
	p.raw(`</ul></section>`)
}

func card(p *printer, label, value string) {
	p.raw(`<div class="card"><span class="label">`)
	p.text(label)
	p.raw(`</span><span class="value">`)
	p.text(value)
	p.raw(`</span></div>`)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// printer запоминает первую ошибку записи
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}
