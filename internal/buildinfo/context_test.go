package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFallbacks(t *testing.T) {
	tests := []struct {
		name string
		ctx  *Context
		want [3]string
	}{
		{
			name: "nil context",
			ctx:  nil,
			want: [3]string{UnknownValue, UnknownValue, UnknownValue},
		},
		{
			name: "empty fields",
			ctx:  &Context{},
			want: [3]string{UnknownValue, UnknownValue, UnknownValue},
		},
		{
			name: "populated",
			ctx:  NewContext("1.2.0", "2026-10-01", "abc1234"),
			want: [3]string{"1.2.0", "2026-10-01", "abc1234"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want[0], tt.ctx.GetVersion())
			assert.Equal(t, tt.want[1], tt.ctx.GetBuildDate())
			assert.Equal(t, tt.want[2], tt.ctx.GetCommit())
		})
	}
}

func TestContextString(t *testing.T) {
	ctx := NewContext("1.2.0", "", "abc1234")
	assert.Equal(t, "pokedex 1.2.0 (commit abc1234, built unknown)", ctx.String())
}
