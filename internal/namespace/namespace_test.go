package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	cases := []struct {
		ref  string
		want []string
	}{
		{"../sibling-preset", []string{"sibling-preset"}},
		{"./preset-b", []string{"preset-b"}},
		{"@scope/pkg/sub", []string{"@scope", "pkg", "sub"}},
		{"@scope/pkg", []string{"@scope", "pkg"}},
		{"ai-rules", []string{"ai-rules"}},
		{"./presets/a/aisync.json", []string{"presets", "a"}},
		{"../../x/./y/", []string{"x", "y"}},
		{"/abs/preset", []string{"abs", "preset"}},
		{"..", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			assert.Equal(t, tc.want, Of(tc.ref))
		})
	}
}

func TestOfIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"@acme", "rules"}, Of("@acme/rules"))
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a.mdc", Join(nil, "a.mdc"))
	assert.Equal(t, "@acme/rules/style/a.mdc", Join([]string{"@acme", "rules"}, "style/a.mdc"))
}
