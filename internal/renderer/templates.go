package renderer

const blockTemplates = `
{{define "header"}}{{if eq .Tag "h1"}}<h1 class="block-header size-{{.Size}}">{{.Text}}</h1>{{else if eq .Tag "h3"}}<h3 class="block-header size-{{.Size}}">{{.Text}}</h3>{{else if eq .Tag "h4"}}<h4 class="block-header size-{{.Size}}">{{.Text}}</h4>{{else if eq .Tag "h5"}}<h5 class="block-header size-{{.Size}}">{{.Text}}</h5>{{else if eq .Tag "h6"}}<h6 class="block-header size-{{.Size}}">{{.Text}}</h6>{{else}}<h2 class="block-header size-{{.Size}}">{{.Text}}</h2>{{end}}{{end}}

{{define "paragraph"}}<p class="block-paragraph">{{.}}</p>{{end}}

{{define "list"}}{{if .Ordered}}<ol class="block-list">{{template "list-items" .}}</ol>{{else}}<ul class="block-list">{{template "list-items" .}}</ul>{{end}}{{end}}

{{define "list-items"}}{{range .Items}}<li>{{.Content}}{{with .Children}}{{template "list" .}}{{end}}</li>{{end}}{{end}}

{{define "quote"}}<blockquote class="block-quote"><p>{{.Text}}</p>{{with .Caption}}<cite>&mdash; {{.}}</cite>{{end}}</blockquote>{{end}}

{{define "code"}}<pre class="block-code"><code>{{.}}</code></pre>{{end}}

{{define "image"}}<figure class="block-image{{if .WithBorder}} with-border{{end}}{{if .WithBackground}} with-background{{end}}{{if .Stretched}} stretched{{end}}"><img src="{{.URL}}" alt="{{.Alt}}" loading="lazy">{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}

{{define "embed"}}<figure class="block-embed"><iframe src="{{.Src}}" title="{{.Title}}" allowfullscreen></iframe>{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}

{{define "table"}}<table class="block-table">{{with .Head}}<thead><tr>{{range .}}<th>{{.}}</th>{{end}}</tr></thead>{{end}}<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>{{end}}

{{define "warning"}}<div class="block-warning" role="alert">{{with .Title}}<strong>{{.}}</strong>{{end}}{{with .Message}}<p>{{.}}</p>{{end}}</div>{{end}}

{{define "linkTool"}}<a class="block-link" href="{{.Link}}" target="_blank" rel="noopener noreferrer"><span class="link-title">{{.Title}}</span>{{with .Description}}<span class="link-description">{{.}}</span>{{end}}<span class="link-url">{{.Link}}</span></a>{{end}}

{{define "delimiter"}}<div class="block-delimiter">* * *</div>{{end}}

{{define "unsupported"}}<div class="block-unsupported">Unsupported content block: {{.}}</div>{{end}}

{{define "legacy"}}<p class="block-paragraph">{{.}}</p>{{end}}

{{define "no-content"}}<p class="no-content">No content available</p>{{end}}

{{define "document"}}<div class="blog-content">{{range .}}{{.HTML}}{{end}}</div>{{end}}
`
