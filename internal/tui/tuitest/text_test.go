package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "plan ready", StripANSI("\x1b[1;32mplan\x1b[0m ready\x1b[?25h"))
}

func TestContainsInOrder(t *testing.T) {
	out := "Sentinel\nVoyager\nRisks"
	assert.True(t, ContainsInOrder(out, "Sentinel", "Voyager"))
	assert.False(t, ContainsInOrder(out, "Voyager", "Sentinel"))
}

func TestKeyCtrl(t *testing.T) {
	assert.Equal(t, "ctrl+n", KeyCtrl('n').String())
	assert.Equal(t, "ctrl+r", KeyCtrl('R').String())
	assert.Equal(t, tea.KeyCtrlC, KeyCtrl('c').Type)
	assert.Panics(t, func() { KeyCtrl('1') })
}

func TestKey(t *testing.T) {
	assert.Equal(t, "shift+tab", Key("shift+tab").String())
	assert.Equal(t, "f1", Key("f1").String())
	assert.Equal(t, "q", Key("q").String())
	assert.Panics(t, func() { Key("hyper+q") })
}

func TestInputSequence_Field(t *testing.T) {
	rec := &recorder{}
	NewInputSequence().Field("ab").Last("").Apply(rec)
	assert.Equal(t, []string{"a", "b", "tab", "enter"}, rec.keys)
}

type recorder struct{ keys []string }

func (r *recorder) Init() tea.Cmd { return nil }
func (r *recorder) View() string  { return "" }
func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		r.keys = append(r.keys, k.String())
	}
	return r, nil
}
