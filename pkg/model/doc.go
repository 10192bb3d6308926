// Package model defines the widget layer that sits on top of the generic grid:
// widget types, widget instances (including the nested table a "table"
// widget owns), per-scope class names, and the helpers that edit widgets
// inside arbitrarily nested tables by value. Renderers and exporters consume
// these types; the canvas package mutates them.
//
// Widgets serialise with the same keys the layout interchange documents use
// (id, type, label, options, placeholder, valueBinding, optionBindings,
// classNames, nestedTable), so a Table can be written to JSON or YAML as is.
package model
