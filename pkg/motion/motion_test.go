package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0, 1, -0.5))
	assert.Equal(t, 0.0, Smoothstep(0, 1, 0))
	assert.InDelta(t, 0.5, Smoothstep(0, 1, 0.5), 1e-9)
	assert.Equal(t, 1.0, Smoothstep(0, 1, 1))
	assert.Equal(t, 1.0, Smoothstep(0, 1, 3))
	assert.InDelta(t, 0.5, Smoothstep(100, 200, 150), 1e-9)

	// degenerate edges behave as a step
	assert.Equal(t, 0.0, Smoothstep(5, 5, 4))
	assert.Equal(t, 1.0, Smoothstep(5, 5, 5))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(-10, 0, 100))
	assert.Equal(t, 0.25, Progress(25, 0, 100))
	assert.Equal(t, 1.0, Progress(500, 0, 100))
	assert.Equal(t, 1.0, Progress(100, 100, 100))
	assert.Equal(t, 0.0, Progress(99, 100, 100))
}

func TestLerpAndClamp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, -10.0, Lerp(0, -20, 0.5))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.0, Clamp(-3, 0, 1))
}

func TestLayerOffset(t *testing.T) {
	l := Layer{Name: "x", Start: 100, End: 300, From: 0, To: 200}

	assert.Equal(t, 0.0, l.Offset(0))
	assert.Equal(t, 0.0, l.Offset(100))
	assert.InDelta(t, 100, l.Offset(200), 1e-9)
	assert.Equal(t, 200.0, l.Offset(300))
	assert.Equal(t, 200.0, l.Offset(1000))
}

func TestLayerStyle(t *testing.T) {
	assert.Equal(t, "transform: translate3d(0, 0.0px, 0);", Layer{Property: TranslateY, End: 1, To: 10}.Style(0))
	assert.Equal(t, "opacity: 1.000;", Layer{Property: Opacity, End: 1, From: 1}.Style(0))
	assert.Equal(t, "transform: scale(0.850);", Layer{Property: Scale, End: 1, From: 0.85, To: 1}.Style(0))
}

func TestSceneStyles_InitialState(t *testing.T) {
	for _, s := range DefaultScenes() {
		styles := s.Styles(0)
		for _, l := range s.Layers {
			assert.Contains(t, styles[l.Name], l.Style(0), "scene %s layer %s", s.ID, l.Name)
		}
	}
}

func TestActiveSection(t *testing.T) {
	sections := []Section{{"hero", 0}, {"work", 800}, {"about", 1600}, {"contact", 2400}}

	cases := []struct {
		scroll float64
		want   string
	}{
		{0, "hero"},
		{300, "hero"},
		{400, "work"},
		{1199, "work"},
		{1200, "about"},
		{5000, "contact"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ActiveSection(sections, tc.scroll, 1000, 0.4), "scroll %v", tc.scroll)
	}

	assert.Equal(t, "", ActiveSection(nil, 0, 1000, 0.4))
	assert.Equal(t, "hero", ActiveSection([]Section{{"hero", 500}}, 0, 100, 0.5))
}
