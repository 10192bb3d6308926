// Package export turns builder markup into clean form markup. It strips the
// editing chrome, disables dragging, and optionally stamps binding
// expressions onto the controls so the saved HTML reads
// value="{{ key }}" wherever a widget is bound.
package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// OutlineClasses are selection and drag feedback classes dropped from every
// element.
var OutlineClasses = []string{
	"canvas-cell-selected",
	"canvas-cell-drag-over",
	"canvas-cell-focused",
	"embedded-cell-selected",
	"embedded-cell-drag-over",
	"embedded-cell-focused",
}

// Class names the builder markup assigns to widget wrappers.
const (
	ClassWidget      = "widget"
	ClassWidgetNoPad = "widget--no-padding"
	ClassNestedCell  = "widget-cell"
	ClassNestedTable = "widget-cell--table"
)

// AttrRole marks the structural elements of builder markup. Chrome removal
// and binding stamping match on it, never on class names, and Finalize drops
// it from the output.
const AttrRole = "data-fl-role"

// Values of AttrRole.
const (
	RoleChrome  = "chrome"
	RoleWidget  = "widget"
	RoleCell    = "cell"
	RoleTable   = "table"
	RoleControl = "control"
	RoleOption  = "option"
)

var reservedPrefixes = []string{"fl-", "canvas-", "embedded-", "widget-"}

// ReservedClass reports whether token belongs to the class vocabulary of the
// builder markup. User supplied class names must not use it.
func ReservedClass(token string) bool {
	if token == ClassWidget {
		return true
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

// Option configures Finalize.
type Option func(*config)

type config struct {
	targets  []model.BindingTarget
	stamp    bool
	sanitize bool
	logger   *slog.Logger
}

// WithTargets stamps the binding expressions of targets onto the matching
// controls. Targets must be in the order model.BindingTargets returns.
func WithTargets(targets []model.BindingTarget) Option {
	return func(cfg *config) {
		cfg.targets = targets
		cfg.stamp = true
	}
}

// WithSanitize passes the result through the export sanitising policy.
func WithSanitize(enabled bool) Option {
	return func(cfg *config) {
		cfg.sanitize = enabled
	}
}

// WithLogger reports target and markup mismatches.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Finalize parses builder markup, removes the chrome and returns the
// re-rendered fragment.
func Finalize(markup []byte, options ...Option) ([]byte, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("export: parse markup: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	StripChrome(root)
	if cfg.stamp {
		stamped, elements := StampBindings(root, cfg.targets)
		if elements != len(cfg.targets) {
			cfg.logger.Warn("export target mismatch", "targets", len(cfg.targets), "elements", elements, "stamped", stamped)
		}
	}
	walk(root, func(n *html.Node) bool {
		removeAttr(n, AttrRole)
		return true
	})

	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("export: render markup: %w", err)
		}
	}
	if cfg.sanitize {
		return Sanitize(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// StripChrome removes the elements marked as chrome and the outline classes
// below root and flips draggable="true" to "false".
func StripChrome(root *html.Node) {
	var remove []*html.Node
	walk(root, func(n *html.Node) bool {
		if attrEquals(n, AttrRole, RoleChrome) {
			remove = append(remove, n)
			return false
		}
		if classes := classList(n); len(classes) > 0 {
			kept := slices.DeleteFunc(slices.Clone(classes), func(c string) bool {
				return slices.Contains(OutlineClasses, c)
			})
			switch {
			case len(kept) == len(classes):
			case len(kept) == 0:
				removeAttr(n, "class")
			default:
				setAttr(n, "class", strings.Join(kept, " "))
			}
		}
		if v, ok := attr(n, "draggable"); ok && v == "true" {
			setAttr(n, "draggable", "false")
		}
		return true
	})
	for _, n := range remove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// StampBindings writes the binding expressions of targets onto the widget
// elements below root. Main-grid widgets (RoleWidget) come first in document
// order, followed by the nested cells (RoleCell) in document order; the i-th
// element receives targets[i]. It returns the number of value attributes
// written and the number of widget elements found.
func StampBindings(root *html.Node, targets []model.BindingTarget) (stamped, elements int) {
	var main, nested []*html.Node
	walk(root, func(n *html.Node) bool {
		switch v, _ := attr(n, AttrRole); v {
		case RoleWidget:
			main = append(main, n)
		case RoleCell:
			nested = append(nested, n)
		}
		return true
	})
	widgets := append(main, nested...)

	for i, el := range widgets {
		if i >= len(targets) {
			break
		}
		target := targets[i]
		if target.ValueBinding != "" {
			if control := findFirst(el, func(n *html.Node) bool {
				return attrEquals(n, AttrRole, RoleControl)
			}); control != nil {
				setAttr(control, "value", target.ValueBinding)
				stamped++
			}
		}
		if len(target.OptionBindings) == 0 {
			continue
		}
		j := 0
		walk(el, func(n *html.Node) bool {
			if n.DataAtom == atom.Input && attrEquals(n, AttrRole, RoleOption) {
				if j < len(target.OptionBindings) && target.OptionBindings[j] != "" {
					setAttr(n, "value", target.OptionBindings[j])
					stamped++
				}
				j++
			}
			return true
		})
	}
	return stamped, len(widgets)
}

// walk visits n and its descendants in document order. Returning false skips
// the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n.Type == html.ElementNode && !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c != n && match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

func classList(n *html.Node) []string {
	v, ok := attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrEquals(n *html.Node, key, want string) bool {
	v, ok := attr(n, key)
	return ok && strings.EqualFold(v, want)
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}
