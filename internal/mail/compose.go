package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/skillxl/backend/internal/model"
)

var replyTemplate = template.Must(template.New("reply").Parse(`<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 600px; margin: 0 auto; color: #333; line-height: 1.6;">
  <div style="border-bottom: 2px solid #06b6d4; padding-bottom: 10px; margin-bottom: 20px;">
    <h2 style="color: #06b6d4; margin: 0;">SkillXL</h2>
    <span style="font-size: 12px; color: #666;">The Bridge to Opportunity</span>
  </div>
  <div style="font-size: 15px; color: #1f2937;">{{.Body}}</div>
  <br>
  <p style="font-size: 13px; color: #666;">Best Regards,<br><strong>{{.SenderName}}</strong><br><a href="mailto:{{.SenderEmail}}" style="color: #06b6d4;">{{.SenderEmail}}</a></p>
{{- with .Original}}
  <div style="margin-top: 40px; border-top: 1px solid #e5e7eb; padding-top: 20px;">
    <h3 style="font-size: 14px; color: #9ca3af; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 15px;">Original Request Details</h3>
    <div style="background-color: #f9fafb; padding: 15px; border-radius: 8px; font-size: 13px; color: #4b5563;">
      {{- if .Name}}
      <p style="margin: 5px 0;"><strong>Name:</strong> {{.Name}}</p>
      {{- end}}
      {{- if .Role}}
      <p style="margin: 5px 0;"><strong>Job Title / Role:</strong> {{.Role}}</p>
      {{- end}}
      {{- if .Service}}
      <p style="margin: 5px 0;"><strong>Interested In:</strong> {{.Service}}</p>
      {{- end}}
      <div style="margin-top: 10px; padding-top: 10px; border-top: 1px dashed #d1d5db;">
        <strong>Message:</strong><br>
        <em style="color: #6b7280;">"{{or .Message "No message content"}}"</em>
      </div>
    </div>
  </div>
{{- end}}
</div>
`))

// Content is the input to Compose.
type Content struct {
	Message     string
	SenderName  string
	SenderEmail string
	Original    *model.OriginalRequest
}

type replyView struct {
	Body        template.HTML
	SenderName  string
	SenderEmail string
	Original    *model.OriginalRequest
}

// Compose renders the HTML reply and derives its plain-text alternative.
func Compose(c Content) (html, text string, err error) {
	view := replyView{
		Body:        textToHTML(c.Message),
		SenderName:  c.SenderName,
		SenderEmail: c.SenderEmail,
		Original:    c.Original,
	}
	if view.SenderName == "" {
		view.SenderName = "SkillXL Support"
	}

	var buf bytes.Buffer
	if err := replyTemplate.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("render reply: %w", err)
	}
	html = buf.String()

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	text, err = converter.ConvertString(html)
	if err != nil {
		return "", "", fmt.Errorf("convert reply to text: %w", err)
	}
	return html, text, nil
}

// textToHTML escapes s and turns its line breaks into <br>.
func textToHTML(s string) template.HTML {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}
