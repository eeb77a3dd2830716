package controls

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrDisabled is returned when a disabled control or option is chosen
var ErrDisabled = errors.New("controls: disabled")

// Option is one entry of a Selector
type Option struct {
	Label    string
	Value    string
	Disabled bool
}

// ChangeHandler reacts to a user choosing an option
type ChangeHandler interface {
	OnChange(sel *Selector)
}

// Selector models a drop-down control. Options are always replaced as a
// whole; there is at most one change handler.
type Selector struct {
	options  []Option
	selected int
	disabled bool
	handler  ChangeHandler
}

// NewSelector creates a selector with the given options
func NewSelector(options ...Option) *Selector {
	s := &Selector{}
	s.SetOptions(options)
	return s
}

// SetOptions replaces the whole option set and resets the selection to the first entry
func (s *Selector) SetOptions(options []Option) {
	s.options = append([]Option(nil), options...)
	s.selected = 0
}

// Options returns a copy of the current option set
func (s *Selector) Options() []Option {
	return append([]Option(nil), s.options...)
}

// Len is the number of options currently present
func (s *Selector) Len() int {
	return len(s.options)
}

// Selected returns the currently selected option
func (s *Selector) Selected() (Option, bool) {
	if s.selected < 0 || s.selected >= len(s.options) {
		return Option{}, false
	}
	return s.options[s.selected], true
}

// SelectedIndex returns the position of the selected option
func (s *Selector) SelectedIndex() int {
	return s.selected
}

// SelectValue marks the option with value as selected without firing the handler
func (s *Selector) SelectValue(value string) bool {
	for i, o := range s.options {
		if o.Value == value {
			s.selected = i
			return true
		}
	}
	return false
}

// SetDisabled enables or disables the whole control
func (s *Selector) SetDisabled(disabled bool) {
	s.disabled = disabled
}

// Disabled reports whether the control accepts input
func (s *Selector) Disabled() bool {
	return s.disabled
}

// SetHandler replaces the change handler (nil removes it)
func (s *Selector) SetHandler(h ChangeHandler) {
	s.handler = h
}

// Handler returns the current change handler
func (s *Selector) Handler() ChangeHandler {
	return s.handler
}

// Choose is a user selecting option i; the handler fires on success
func (s *Selector) Choose(i int) error {
	if s.disabled {
		return ErrDisabled
	}
	if i < 0 || i >= len(s.options) {
		return fmt.Errorf("controls: option %d out of range (%d options)", i, len(s.options))
	}
	if s.options[i].Disabled {
		return ErrDisabled
	}
	s.selected = i
	if s.handler != nil {
		s.handler.OnChange(s)
	}
	return nil
}

// Step moves the selection by delta (wrapping), as arrow keys do
func (s *Selector) Step(delta int) error {
	n := len(s.options)
	if n == 0 {
		return ErrDisabled
	}
	return s.Choose(((s.selected+delta)%n + n) % n)
}

// selectedInt parses the selected value as a base-10 integer
func selectedInt(sel *Selector) (int, error) {
	opt, ok := sel.Selected()
	if !ok {
		return 0, errors.New("controls: nothing selected")
	}
	return strconv.Atoi(opt.Value)
}

// Checkbox models a boolean toggle
type Checkbox struct {
	checked  bool
	onToggle func(checked bool)
}

// NewCheckbox creates a checkbox with an initial state
func NewCheckbox(checked bool) *Checkbox {
	return &Checkbox{checked: checked}
}

// Checked returns the current state
func (c *Checkbox) Checked() bool {
	return c.checked
}

// SetChecked writes the state without notifying anyone
func (c *Checkbox) SetChecked(checked bool) {
	c.checked = checked
}

// OnToggle replaces the user toggle callback
func (c *Checkbox) OnToggle(fn func(checked bool)) {
	c.onToggle = fn
}

// Toggle is a user flipping the checkbox
func (c *Checkbox) Toggle() {
	c.checked = !c.checked
	if c.onToggle != nil {
		c.onToggle(c.checked)
	}
}
