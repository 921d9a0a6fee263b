package guide

import (
	"html/template"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
	"go.uber.org/zap"
)

// Channels without a resolvable group render under this sentinel group.
const otherGroupName = "Other Channels"

// strips a leading channel-number prefix, e.g. "2.1 | ABC News" -> "ABC News"
var chNumberPrefix = regexp.MustCompile(`^\d+(\.\d+)?\s*\|\s*`)

// CleanChannelName removes the channel-number prefix some playlists embed in
// the display name.
func CleanChannelName(name string) string {
	if name == "" {
		return "Unknown Channel"
	}
	cleaned := chNumberPrefix.ReplaceAllString(name, "")
	if cleaned == "" {
		return name
	}
	return cleaned
}

type renderChannel struct {
	Number  string
	Name    string
	LogoURL string

	sortKey SortKey
}

type renderGroup struct {
	Name     string
	Channels []renderChannel
}

// buildGroups sorts channels by number, resolves group names and logos, and
// orders groups by their first channel's number.
func buildGroups(channels []dispatcharr.Channel, groups map[int64]string, logos map[int64]dispatcharr.Logo) []renderGroup {
	sorted := slices.Clone(channels)
	slices.SortStableFunc(sorted, func(a, b dispatcharr.Channel) int {
		return NewSortKey(string(a.ChannelNumber)).Compare(NewSortKey(string(b.ChannelNumber)))
	})

	byName := make(map[string]*renderGroup)
	var ordered []*renderGroup
	for _, channel := range sorted {
		groupName := otherGroupName
		if name, ok := groups[channel.GroupID]; ok && name != "" {
			groupName = name
		}

		group, ok := byName[groupName]
		if !ok {
			group = &renderGroup{Name: groupName}
			byName[groupName] = group
			ordered = append(ordered, group)
		}

		rc := renderChannel{
			Number:  channel.ChannelNumber.Display(),
			Name:    CleanChannelName(channel.Name),
			sortKey: NewSortKey(string(channel.ChannelNumber)),
		}
		if logo, ok := logos[channel.LogoID]; ok {
			rc.LogoURL = logo.BestURL()
		}
		group.Channels = append(group.Channels, rc)
	}

	// order groups by the first channel's number
	slices.SortStableFunc(ordered, func(a, b *renderGroup) int {
		return a.Channels[0].sortKey.Compare(b.Channels[0].sortKey)
	})

	result := make([]renderGroup, 0, len(ordered))
	for _, group := range ordered {
		result = append(result, *group)
	}
	return result
}

type guidePage struct {
	Title        string
	ChannelCount int
	Groups       []renderGroup
	UpdatedAt    string
}

type errorPage struct {
	Message string
}

var guideTmpl = template.Must(template.New("guide").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body{font-family:-apple-system,'Segoe UI',Roboto,Arial,sans-serif;background:#1a1a2e;color:#e8e8e8;padding:20px}
.header{text-align:center;margin-bottom:40px;padding:30px;background:#16213e;border-radius:12px}
.header h1{color:#fff;margin-bottom:10px}
.channel-count{color:#9aa5ce}
.channel-group{background:#16213e;border-radius:12px;padding:30px;margin-bottom:30px}
.group-title{color:#fff;margin-bottom:20px;padding-bottom:10px;border-bottom:3px solid #0f3460}
.channels-table{width:100%;border-collapse:collapse;background:#0f3460}
.channels-table th{padding:15px;text-align:left;color:#fff;text-transform:uppercase}
.channels-table td{padding:15px;vertical-align:middle}
.channels-table tbody tr{border-bottom:1px solid #1a237e}
.channel-number{display:inline-block;padding:6px 14px;background:#667eea;border-radius:20px;font-weight:700;color:#fff}
.channel-logo{max-height:40px;max-width:80px}
.footer{text-align:center;color:#9aa5ce;margin-top:30px}
</style>
</head>
<body>
<div class="header">
<h1>{{.Title}}</h1>
<div class="channel-count">{{.ChannelCount}} channels</div>
</div>
{{range .Groups}}
<div class="channel-group">
<h2 class="group-title">{{.Name}}</h2>
<table class="channels-table">
<thead><tr><th>Channel</th><th>Logo</th><th>Name</th></tr></thead>
<tbody>
{{range .Channels}}
<tr>
<td><span class="channel-number">{{.Number}}</span></td>
<td>{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.Name}}" class="channel-logo" onerror="this.style.display='none'">{{end}}</td>
<td>{{.Name}}</td>
</tr>
{{end}}
</tbody>
</table>
</div>
{{end}}
<div class="footer">Last updated: {{.UpdatedAt}}</div>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<title>Error</title>
<style>
body{font-family:Arial,sans-serif;background:#1a1a2e;color:#e8e8e8;padding:40px;text-align:center}
.error{background:#16213e;padding:30px;border-radius:12px;max-width:600px;margin:0 auto}
h1{color:#ff6b6b}
pre{background:#0f3460;padding:20px;border-radius:8px;text-align:left;overflow-x:auto}
</style>
</head>
<body>
<div class="error">
<h1>Error Loading Channel Guide</h1>
<pre>{{.Message}}</pre>
<p>The cache will retry on the next scheduled refresh.</p>
</div>
</body>
</html>
`))

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}} - Print</title>
<style>
body{font-family:Arial,sans-serif;color:#000;background:#fff;padding:10px}
h1{font-size:18px;text-align:center}
.channel-group{break-inside:avoid;margin-bottom:12px}
.group-title{font-size:14px;border-bottom:1px solid #000;margin-bottom:4px}
table{width:100%;border-collapse:collapse;font-size:11px}
td{padding:2px 6px;border-bottom:1px dotted #999}
.num{width:50px;font-weight:bold}
@media print{.no-print{display:none}}
</style>
</head>
<body>
<div class="no-print"><button onclick="window.print()">Print</button></div>
<h1>{{.Title}}</h1>
{{range .Groups}}
<div class="channel-group">
<div class="group-title">{{.Name}}</div>
<table>
{{range .Channels}}
<tr><td class="num">{{.Number}}</td><td>{{.Name}}</td></tr>
{{end}}
</table>
</div>
{{end}}
</body>
</html>
`))

// RenderGuide produces the cached guide artifact.
func RenderGuide(channels []dispatcharr.Channel, groups map[int64]string, logos map[int64]dispatcharr.Logo, title string, updatedAt time.Time) string {
	page := guidePage{
		Title:        title,
		ChannelCount: len(channels),
		Groups:       buildGroups(channels, groups, logos),
		UpdatedAt:    updatedAt.Format("2006-01-02 15:04:05"),
	}
	return execute(guideTmpl, page)
}

// RenderError produces the synthesized error page used before the first
// successful refresh.
func RenderError(message string) string {
	return execute(errorTmpl, errorPage{Message: message})
}

// RenderPrint produces the printable guide. When selected is non-empty only
// the named groups are included, compared case-insensitively.
func RenderPrint(channels []dispatcharr.Channel, groups map[int64]string, logos map[int64]dispatcharr.Logo, title string, selected []string) string {
	all := buildGroups(channels, groups, logos)

	kept := all
	if len(selected) > 0 {
		kept = kept[:0:0]
		for _, group := range all {
			for _, name := range selected {
				if strings.EqualFold(group.Name, name) {
					kept = append(kept, group)
					break
				}
			}
		}
	}

	return execute(printTmpl, guidePage{Title: title, Groups: kept})
}

func execute(tmpl *template.Template, data any) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		zap.L().Error("Failed to execute template.", zap.Error(err))
		return ""
	}
	return sb.String()
}
