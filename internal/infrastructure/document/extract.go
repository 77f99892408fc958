package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrEmptyDocument   = errors.New("document has no extractable text")
)

// MaxDescriptionLen caps the extracted text stored as a job description.
const MaxDescriptionLen = 20000

// ExtractText pulls plain text out of an uploaded job description. HTML is
// walked in process; office and PDF formats go through docconv.
func ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))

	var text string
	switch ext {
	case ".txt", ".md", "":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not utf-8 text", ErrUnsupportedType, filename)
		}
		text = string(data)
	case ".html", ".htm":
		t, err := htmlText(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("parse document %s: %w", filename, err)
		}
		text = t
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), false)
		if err != nil {
			return "", fmt.Errorf("parse document %s: %w", filename, err)
		}
		text = res.Body
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	text = clean(text)
	if text == "" && ext != ".txt" && ext != ".md" && ext != "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}
	return text, nil
}

// docconv's own HTML path shells out to tidy and returns an empty body when
// it is missing, so HTML is tokenised here.
func htmlText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	last := byte('\n')
	put := func(s string) {
		b.WriteString(s)
		last = s[len(s)-1]
	}
	space := func() {
		if last != ' ' && last != '\n' {
			put(" ")
		}
	}
	newline := func() {
		if last != '\n' {
			put("\n")
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words := strings.Fields(n.Data)
			if len(words) == 0 {
				if n.Data != "" {
					space()
				}
				return
			}
			first, _ := utf8.DecodeRuneInString(n.Data)
			lastRune, _ := utf8.DecodeLastRuneInString(n.Data)
			if unicode.IsSpace(first) {
				space()
			}
			put(strings.Join(words, " "))
			if unicode.IsSpace(lastRune) {
				space()
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head, atom.Template:
				return
			case atom.Br:
				newline()
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElement(n.DataAtom) {
			newline()
		}
	}
	walk(root)
	return b.String(), nil
}

func blockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Tr, atom.Table, atom.Section, atom.Article,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre, atom.Dd, atom.Dt:
		return true
	}
	return false
}

func clean(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if strings.TrimSpace(l) == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, l)
	}
	res := strings.TrimSpace(strings.Join(out, "\n"))
	if len(res) > MaxDescriptionLen {
		res = res[:MaxDescriptionLen]
		for !utf8.ValidString(res) {
			res = res[:len(res)-1]
		}
	}
	return res
}
