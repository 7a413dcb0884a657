package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body>
    "Life is like riding a bicycle. To keep your balance, you must keep moving." &mdash;Albert Einstein
    <br>
    Your tasks for Today:
    <br>
    <ul>
{{- range .}}
        <li>{{.}}</li>
{{- end}}
    </ul>
    <br>
    Have a great day! (^_^)
</body>
</html>
`))

// Compose renders messages as the HTML digest body. Message text is escaped.
func Compose(messages []string) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, messages); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ComposeText renders the plain text alternative of the digest.
func ComposeText(messages []string) string {
	var sb strings.Builder
	sb.WriteString("Your tasks for Today:\n")
	for _, m := range messages {
		sb.WriteString("- ")
		sb.WriteString(m)
		sb.WriteString("\n")
	}
	sb.WriteString("\nHave a great day! (^_^)\n")
	return sb.String()
}

// Subject states how many tasks the digest carries.
func Subject(count int) string {
	return fmt.Sprintf("[Your Tasks For Today] You have %d tasks that require your attention.", count)
}
