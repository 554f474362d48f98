package theme

import (
	"bytes"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/monthcal/internal/model"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: " Dark ", want: ModeDark},
		{in: "LIGHT", want: ModeLight},
		{in: "sepia", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	darkTerm := func() bool { return true }
	lightTerm := func() bool { return false }

	assert.True(t, resolve(ModeDark, lightTerm))
	assert.False(t, resolve(ModeLight, darkTerm))
	assert.True(t, resolve(ModeAuto, darkTerm))
	assert.False(t, resolve(ModeAuto, lightTerm))
}

func TestNewPaletteHonorsExplicitMode(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, NewPalette(&buf, ModeDark).Dark)
	assert.False(t, NewPalette(&buf, ModeLight).Dark)
}

func TestTaskStyleAndPriorityMark(t *testing.T) {
	p := NewPalette(&bytes.Buffer{}, ModeDark)

	done := model.Task{Status: model.TaskCompleted}
	assert.True(t, p.TaskStyle(done, true).GetStrikethrough())

	pending := model.Task{Status: model.TaskPending}
	assert.Equal(t, ColorRed, p.TaskStyle(pending, true).GetForeground())
	assert.Equal(t, ColorYellow, p.TaskStyle(pending, false).GetForeground())

	memo := model.Task{Status: model.TaskPending, Kind: mo.Some(model.KindMemo)}
	assert.True(t, p.TaskStyle(memo, false).GetItalic())

	// Output to a buffer has no color profile, so marks render plain.
	assert.Equal(t, "!!", p.PriorityMark(mo.Some(model.PriorityHigh)))
	assert.Equal(t, "", p.PriorityMark(mo.Some(model.PriorityLow)))
	assert.Equal(t, "", p.PriorityMark(mo.None[model.TaskPriority]()))
}
