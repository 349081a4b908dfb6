package chat

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>studygen answer</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; padding: 0 1em; }
blockquote { border-left: 3px solid #ccc; padding-left: 1em; color: #555; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTML converts a markdown answer into a standalone HTML page.
func RenderHTML(answer *Answer) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(answer.Markdown), &buf); err != nil {
		return "", fmt.Errorf("render answer: %w", err)
	}
	return fmt.Sprintf(htmlPage, buf.String()), nil
}
