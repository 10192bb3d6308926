package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/render"
)

// Renderer fills a layout interactively: every bound widget becomes a prompt
// and the answers are written to the binding context and serialized.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	logger            *slog.Logger
	instanceScope     bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every bound widget in document order. Current binding
// values are offered as defaults. In the global scope a key shared by several
// widgets is asked once.
func (r *Renderer) Render(ctx context.Context, table model.Table, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Bindings == nil {
		opts.Bindings = binding.NewContext(nil)
	}

	var bound []model.Widget
	model.WalkWidgets(table, func(w model.Widget, _ int) {
		if isBound(w) {
			bound = append(bound, w)
		}
	})
	if len(bound) == 0 {
		return nil, ErrNoBindings
	}

	state := NewState(nil)
	for _, w := range bound {
		if err := r.promptWidget(ctx, w, opts, state); err != nil {
			return nil, err
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) promptWidget(ctx context.Context, w model.Widget, opts render.RenderOptions, state *State) error {
	switch w.Type {
	case model.WidgetRadio:
		return r.promptRadio(ctx, w, opts, state)
	case model.WidgetCheckbox:
		return r.promptCheckbox(ctx, w, opts, state)
	default:
		return r.promptString(ctx, w, opts, state)
	}
}

func (r *Renderer) promptString(ctx context.Context, w model.Widget, opts render.RenderOptions, state *State) error {
	key, ok := binding.ParseKey(w.ValueBinding)
	if !ok || r.answered(state, key) {
		return nil
	}
	response, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(w, key),
		Default: opts.Value(w.ValueBinding, w.ID),
		Help:    displayHelp(opts.Bindings, key),
	})
	if err != nil {
		return err
	}
	opts.Bindings.SetValue(w.ValueBinding, response, r.instance(w))
	return r.store(state, key, response)
}

func (r *Renderer) promptCheckbox(ctx context.Context, w model.Widget, opts render.RenderOptions, state *State) error {
	key, ok := binding.ParseKey(w.ValueBinding)
	if !ok || r.answered(state, key) {
		return nil
	}
	checked, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(w, key),
		Default: truthy(opts.Value(w.ValueBinding, w.ID)),
		Help:    displayHelp(opts.Bindings, key),
	})
	if err != nil {
		return err
	}
	opts.Bindings.SetValue(w.ValueBinding, strconv.FormatBool(checked), r.instance(w))
	return r.store(state, key, checked)
}

// promptRadio asks for one option. The chosen option's binding receives its
// label and the other option bindings are cleared.
func (r *Renderer) promptRadio(ctx context.Context, w model.Widget, opts render.RenderOptions, state *State) error {
	if len(w.Options) == 0 {
		return nil
	}
	keys := optionKeys(w)
	if len(keys) > 0 && !r.instanceScope {
		all := true
		for _, key := range keys {
			if !r.answered(state, key) {
				all = false
				break
			}
		}
		if all {
			return nil
		}
	}

	current, ok := opts.SelectedOption(w)
	if !ok {
		current = -1
	}
	index, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(w, ""),
		Options:      w.Options,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if index < 0 || index >= len(w.Options) {
		_ = r.driver.Info(ctx, fmt.Sprintf("Invalid choice for %s", displayLabel(w, "")))
		return fmt.Errorf("tui: widget %s: option %d out of range", w.ID, index)
	}

	opts.Bindings.SelectOptionIndex(w.Options, w.OptionBindings, index, r.instance(w))
	for i, expr := range w.OptionBindings {
		key, ok := binding.ParseKey(expr)
		if !ok {
			continue
		}
		value := ""
		if i == index {
			value = w.Options[i]
		}
		if err := r.store(state, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) answered(state *State, key string) bool {
	if r.instanceScope {
		return false
	}
	_, ok := state.GetValue(key)
	return ok
}

func (r *Renderer) instance(w model.Widget) string {
	if r.instanceScope {
		return w.ID
	}
	return ""
}

func (r *Renderer) store(state *State, key string, value any) error {
	if err := state.SetValue(key, value); err != nil {
		return fmt.Errorf("tui: store %s: %w", key, err)
	}
	r.logger.Debug("binding filled", "key", key)
	return nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func isBound(w model.Widget) bool {
	if _, ok := binding.ParseKey(w.ValueBinding); ok && w.Type != model.WidgetRadio {
		return true
	}
	return w.Type == model.WidgetRadio && len(optionKeys(w)) > 0
}

func optionKeys(w model.Widget) []string {
	var keys []string
	for _, expr := range w.OptionBindings {
		if key, ok := binding.ParseKey(expr); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func displayLabel(w model.Widget, key string) string {
	if label := strings.TrimSpace(w.Label); label != "" {
		return label
	}
	if key != "" {
		return key
	}
	return w.ID
}

func displayHelp(ctx *binding.Context, key string) string {
	for _, prop := range ctx.Properties() {
		if prop.Key == key {
			return prop.Label + " (" + key + ")"
		}
	}
	return key
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off", "no":
		return false
	}
	return true
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var lines []string
	writePretty(&lines, "", values)
	sort.Strings(lines)
	return strings.Join(lines, "")
}

func writePretty(lines *[]string, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(lines, next, val)
		}
	case []any:
		for idx, val := range v {
			writePretty(lines, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			*lines = append(*lines, fmt.Sprintf("%s=%v\n", prefix, v))
		}
	}
}
