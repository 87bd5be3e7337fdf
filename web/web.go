// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Funcs 模板函数；mediaURL 为空时图片地址原样输出
func Funcs(mediaURL func(string) string) template.FuncMap {
	if mediaURL == nil {
		mediaURL = func(s string) string { return s }
	}
	return template.FuncMap{
		"mediaURL": mediaURL,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"truncateWords": truncateWords,
		"linebreaks": func(s string) template.HTML {
			lines := strings.Split(template.HTMLEscapeString(s), "\n")
			return template.HTML(strings.Join(lines, "<br>"))
		},
	}
}

// Templates 解析全部页面和公共片段
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

func truncateWords(n int, s string) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + " …"
}
