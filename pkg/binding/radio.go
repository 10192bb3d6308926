package binding

// SelectedOption reports which option of a radio group is currently chosen.
// Each option carries its own binding; an option counts as selected when its
// bound value equals its label. Options are scanned in order and the first
// match wins. Unbound options and empty labels never match.
func (c *Context) SelectedOption(options, optionBindings []string, instanceID string) (int, bool) {
	if c == nil {
		return -1, false
	}
	for i, option := range options {
		if option == "" || i >= len(optionBindings) {
			continue
		}
		if _, ok := ParseKey(optionBindings[i]); !ok {
			continue
		}
		if c.Value(optionBindings[i], instanceID) == option {
			return i, true
		}
	}
	return -1, false
}

// SelectOption marks the first option labelled chosen as selected: its binding
// receives its own label and every sibling binding is cleared to "". Unknown
// labels clear the whole group.
func (c *Context) SelectOption(options, optionBindings []string, chosen, instanceID string) {
	index := -1
	for i, option := range options {
		if option == chosen {
			index = i
			break
		}
	}
	c.SelectOptionIndex(options, optionBindings, index, instanceID)
}

// SelectOptionIndex is SelectOption addressed by position.
func (c *Context) SelectOptionIndex(options, optionBindings []string, index int, instanceID string) {
	if c == nil {
		return
	}
	for i, option := range options {
		if i >= len(optionBindings) {
			break
		}
		value := ""
		if i == index {
			value = option
		}
		c.SetValue(optionBindings[i], value, instanceID)
	}
}
