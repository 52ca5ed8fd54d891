package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, Default.Primary, GetTheme("solarized").Primary)
	assert.Equal(t, "dark", GetTheme("").GlamourStyle)
}

func TestStatusStyle(t *testing.T) {
	theme := Default
	assert.Equal(t, theme.StatusSuccess.GetForeground(), theme.StatusStyle("success").GetForeground())
	assert.Equal(t, theme.StatusError.GetForeground(), theme.StatusStyle("error").GetForeground())
	assert.Equal(t, theme.StatusInfo.GetForeground(), theme.StatusStyle("loading").GetForeground())
	assert.Equal(t, theme.StatusPending.GetForeground(), theme.StatusStyle("idle").GetForeground())
}
