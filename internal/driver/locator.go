package driver

import (
	"fmt"
	"strings"
)

// Locator describes how to find one control on the page. Locators are plain
// values compiled to an XPath expression on every lookup; nothing is cached
// between lookups because the creator page re-renders aggressively.
//
// The platform obfuscates its class names, so descriptors lean on visible
// text, placeholder attributes and stable class fragments.
type Locator struct {
	kind      locatorKind
	tag       string
	text      string
	exclude   string
	attr      string
	pattern   string
	role      string
	classHint string
	scope     *Locator
	last      bool
}

type locatorKind int

const (
	kindText locatorKind = iota
	kindPlaceholder
	kindAttr
	kindRole
)

// ByText matches elements whose rendered text contains s.
func ByText(s string) Locator {
	return Locator{kind: kindText, text: s}
}

// ByPlaceholder matches inputs carrying exactly this placeholder text.
func ByPlaceholder(s string) Locator {
	return Locator{kind: kindPlaceholder, text: s}
}

// ByAttr matches elements whose attribute value contains pattern.
func ByAttr(attr, pattern string) Locator {
	return Locator{kind: kindAttr, attr: attr, pattern: pattern}
}

// ByRole matches elements by their ARIA role attribute.
func ByRole(role string) Locator {
	return Locator{kind: kindRole, role: role}
}

// Tag restricts the match to one element type, e.g. "button". Text matching
// then covers nested children, the way a button wraps its label in spans.
func (l Locator) Tag(tag string) Locator {
	l.tag = tag
	return l
}

// Excluding rejects elements whose text also contains s.
func (l Locator) Excluding(s string) Locator {
	l.exclude = s
	return l
}

// HavingClass additionally requires a class attribute containing s.
func (l Locator) HavingClass(s string) Locator {
	l.classHint = s
	return l
}

// Within narrows the lookup to descendants of container.
func (l Locator) Within(container Locator) Locator {
	l.scope = &container
	return l
}

// Last picks the last match instead of the first.
func (l Locator) Last() Locator {
	l.last = true
	return l
}

// Selector compiles the locator to an XPath expression.
func (l Locator) Selector() string {
	var b strings.Builder
	if l.scope != nil {
		b.WriteString(l.scope.axis())
	}
	b.WriteString(l.axis())
	if l.last {
		return "(" + b.String() + ")[last()]"
	}
	return b.String()
}

// axis renders the locator as one //step of the final expression.
func (l Locator) axis() string {
	tag := l.tag
	if tag == "" {
		tag = "*"
	}
	var preds []string
	switch l.kind {
	case kindText:
		if l.tag == "" {
			// Direct text node so the deepest element wins, not <body>.
			preds = append(preds, fmt.Sprintf("contains(text(), %s)", xpathQuote(l.text)))
		} else {
			preds = append(preds, fmt.Sprintf("contains(., %s)", xpathQuote(l.text)))
		}
	case kindPlaceholder:
		preds = append(preds, fmt.Sprintf("@placeholder=%s", xpathQuote(l.text)))
	case kindAttr:
		preds = append(preds, fmt.Sprintf("contains(@%s, %s)", l.attr, xpathQuote(l.pattern)))
	case kindRole:
		preds = append(preds, fmt.Sprintf("@role=%s", xpathQuote(l.role)))
	}
	if l.exclude != "" {
		preds = append(preds, fmt.Sprintf("not(contains(., %s))", xpathQuote(l.exclude)))
	}
	if l.classHint != "" {
		preds = append(preds, fmt.Sprintf("contains(@class, %s)", xpathQuote(l.classHint)))
	}
	var b strings.Builder
	b.WriteString("//")
	b.WriteString(tag)
	for _, p := range preds {
		b.WriteString("[")
		b.WriteString(p)
		b.WriteString("]")
	}
	return b.String()
}

// xpathQuote renders s as an XPath string literal. Strings holding both quote
// kinds need concat().
func xpathQuote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

func (l Locator) String() string {
	var desc string
	switch l.kind {
	case kindText:
		desc = fmt.Sprintf("text(%s)", l.text)
	case kindPlaceholder:
		desc = fmt.Sprintf("placeholder(%s)", l.text)
	case kindAttr:
		desc = fmt.Sprintf("%s~%s", l.attr, l.pattern)
	case kindRole:
		desc = fmt.Sprintf("role(%s)", l.role)
	}
	if l.tag != "" {
		desc = l.tag + ":" + desc
	}
	if l.exclude != "" {
		desc += fmt.Sprintf(" -text(%s)", l.exclude)
	}
	if l.classHint != "" {
		desc += fmt.Sprintf(" .%s", l.classHint)
	}
	if l.scope != nil {
		desc = l.scope.String() + " > " + desc
	}
	if l.last {
		desc += " [last]"
	}
	return desc
}

// Element is a flat description of a rendered control, enough for fixtures to
// answer lookups with the same semantics the compiled selector has in the
// browser. Scoped lookups match on the leaf predicate only; a fixture models
// container state itself.
type Element struct {
	Tag   string
	Text  string
	Attrs map[string]string
}

// MatchesElement mirrors Selector's matching rules against a fixture element.
func (l Locator) MatchesElement(el Element) bool {
	if l.tag != "" && !strings.EqualFold(l.tag, el.Tag) {
		return false
	}
	if l.exclude != "" && strings.Contains(el.Text, l.exclude) {
		return false
	}
	if l.classHint != "" && !strings.Contains(el.Attrs["class"], l.classHint) {
		return false
	}
	switch l.kind {
	case kindText:
		return strings.Contains(el.Text, l.text)
	case kindPlaceholder:
		return el.Attrs["placeholder"] == l.text
	case kindAttr:
		return strings.Contains(el.Attrs[l.attr], l.pattern)
	case kindRole:
		return el.Attrs["role"] == l.role
	}
	return false
}
