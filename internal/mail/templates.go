package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
)

type TemplateID string

const (
	TemplateNewsletterSignup TemplateID = "newsletterSignup"
)

type translation struct {
	Subject string
	Body    string
}

var translations = map[string]map[TemplateID]translation{
	"en": {
		TemplateNewsletterSignup: {
			Subject: "Welcome to our newsletter",
			Body:    "Thanks for signing up! We will keep you posted about new features and updates.",
		},
	},
	"de": {
		TemplateNewsletterSignup: {
			Subject: "Willkommen bei unserem Newsletter",
			Body:    "Danke für deine Anmeldung! Wir halten dich über neue Funktionen und Updates auf dem Laufenden.",
		},
	},
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<body style="font-family: sans-serif; background: #f6f6f6; padding: 24px;">
<div style="max-width: 560px; margin: 0 auto; background: #ffffff; padding: 24px; border-radius: 8px;">
<p>{{.Body}}</p>
{{range $k, $v := .Data}}<p><strong>{{$k}}:</strong> {{$v}}</p>
{{end}}</div>
</body>
</html>`))

// Render builds the subject and bodies for id. Unknown locales fall back to
// English.
func Render(id TemplateID, locale string, data map[string]string) (Message, error) {
	set, ok := translations[locale]
	if !ok {
		set = translations["en"]
		locale = "en"
	}
	tr, ok := set[id]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail template %q", id)
	}

	var html bytes.Buffer
	err := layout.Execute(&html, struct {
		Locale string
		Body   string
		Data   map[string]string
	}{Locale: locale, Body: tr.Body, Data: data})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render mail template %q: %w", id, err)
	}

	text := tr.Body
	if len(data) > 0 {
		var sb strings.Builder
		sb.WriteString(tr.Body)
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString("\n" + k + ": " + data[k])
		}
		text = sb.String()
	}

	return Message{Subject: tr.Subject, HTML: html.String(), Text: text}, nil
}
