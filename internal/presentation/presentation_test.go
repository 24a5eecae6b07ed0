package presentation_test

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/testutil"
)

type goldenCase struct {
	Name     string
	Snapshot []byte
}

func (g goldenCase) Output() ([]byte, string) {
	return g.Snapshot, g.Name
}

func TestCatalogRender(t *testing.T) {
	c := presentation.NewCatalog(map[string]string{
		presentation.MsgEnd:        "GG <participant>!",
		presentation.MsgTargetTime: "  ",
	})

	testCases := []struct {
		Name         string
		Key          string
		Placeholders []string
		Want         string
	}{
		{
			Name:         "built-in message",
			Key:          presentation.MsgLevelBegin,
			Placeholders: []string{"<level>", "3"},
			Want:         "Level 3 has begun!",
		},
		{
			Name:         "two placeholders",
			Key:          presentation.MsgLevelStat,
			Placeholders: []string{"<lnumber>", "1", "<ltime>", "8 seconds"},
			Want:         "Level 1: 8 seconds",
		},
		{
			Name:         "override",
			Key:          presentation.MsgEnd,
			Placeholders: []string{"<participant>", "alice"},
			Want:         "GG alice!",
		},
		{
			Name: "blank override is ignored",
			Key:  presentation.MsgTargetTime,
			Want: "You beat the target time!",
		},
		{
			Name:         "dangling placeholder",
			Key:          presentation.MsgLevelComplete,
			Placeholders: []string{"<level>", "2", "<extra>"},
			Want:         "Level 2 complete!",
		},
		{
			Name: "unknown key",
			Key:  "mystery",
			Want: "mystery",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, c.Render(tc.Key, tc.Placeholders...))
		})
	}
}

func TestKeysCoverDefaults(t *testing.T) {
	assert.ElementsMatch(t, []string{
		presentation.MsgLevelBegin,
		presentation.MsgTimeInfo,
		presentation.MsgLevelComplete,
		presentation.MsgTargetTime,
		presentation.MsgEnd,
		presentation.MsgLevelStat,
		presentation.MsgEndTeleport,
		presentation.MsgSettingDenied,
		presentation.MsgSettingToggled,
	}, presentation.Keys())
}

func TestConsole(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	var buf bytes.Buffer

	c := presentation.NewConsole(&buf, presentation.NewCatalog(nil))

	c.Notify("alice", presentation.MsgLevelBegin, "<level>", "1")
	c.PlayCue("alice", presentation.CuePickup)
	c.SetProgressWidget("alice", 3, presentation.Progress{Label: "Challenge Time: Level 1", Fraction: 1})
	c.SetProgressWidget("alice", 3, presentation.Progress{Label: "Challenge Time: Level 1", Fraction: 0.25, Urgent: true})
	c.ShowBlock("alice", geom.Block{2, 63, 12}, geom.StainedClay, 8)
	c.ClearProgressWidget("alice", 3)
	c.RestoreBlock("alice", geom.Block{2, 63, 12})
	c.Notify("alice", presentation.MsgLevelStat, "<lnumber>", "1", "<ltime>", "8 seconds")
	require.NoError(t, c.Teleport("alice", mgl64.Vec3{0, 70, -10.5}))

	testutil.CompareGoldenFile(t, goldenCase{Name: "console", Snapshot: buf.Bytes()})
}
