package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"music-controls/exercise"
)

// exportForm asks the two enrichment questions one after the other
type exportForm struct {
	dest   exercise.Destination
	step   int
	inputs [2]textinput.Model
}

var formPrompts = [2]string{exercise.TypePrompt, exercise.IntroPrompt}

func newExportForm(dest exercise.Destination) *exportForm {
	typ := textinput.New()
	typ.Placeholder = "1-5, blank for none"
	typ.CharLimit = 8
	typ.Width = 24

	intro := textinput.New()
	intro.Placeholder = "blank to keep the current intro"
	intro.CharLimit = 1000
	intro.Width = 60

	return &exportForm{dest: dest, inputs: [2]textinput.Model{typ, intro}}
}

func (f *exportForm) focus() tea.Cmd {
	return f.inputs[f.step].Focus()
}

// next advances to the following question; false when the form is complete
func (f *exportForm) next() (tea.Cmd, bool) {
	if f.step+1 >= len(f.inputs) {
		return nil, false
	}
	f.inputs[f.step].Blur()
	f.step++
	return f.focus(), true
}

func (f *exportForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.step], cmd = f.inputs[f.step].Update(msg)
	return cmd
}

func (f *exportForm) answers() exercise.Answers {
	return exercise.Answers{
		TypeChoice: f.inputs[0].Value(),
		IntroText:  f.inputs[1].Value(),
	}
}

func (f *exportForm) prompt() string {
	return formPrompts[f.step]
}

func (f *exportForm) view() string {
	return f.inputs[f.step].View()
}
