package webextract_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/webextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{
			name: "root-relative path",
			base: "https://x.com",
			ref:  "/a.png",
			want: "https://x.com/a.png",
		},
		{
			name: "document-relative path",
			base: "https://x.com/blog/post",
			ref:  "img/a.png",
			want: "https://x.com/blog/img/a.png",
		},
		{
			name: "absolute URL unchanged",
			base: "https://x.com",
			ref:  "https://cdn.example.com/a.png",
			want: "https://cdn.example.com/a.png",
		},
		{
			name: "protocol-relative URL takes base scheme",
			base: "https://x.com",
			ref:  "//cdn.example.com/a.png",
			want: "https://cdn.example.com/a.png",
		},
		{
			name: "fragment-only ref unchanged",
			base: "https://x.com/post",
			ref:  "#section",
			want: "#section",
		},
		{
			name: "empty base leaves ref untouched",
			base: "",
			ref:  "/a.png",
			want: "/a.png",
		},
		{
			name: "surrounding whitespace trimmed",
			base: "https://x.com",
			ref:  "  /a.png\n",
			want: "https://x.com/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := webextract.ResolveURL(tt.base, tt.ref)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("returns EINVALID for unparseable ref", func(t *testing.T) {
		t.Parallel()

		_, err := webextract.ResolveURL("https://x.com", "http://[::1")

		require.Error(t, err)
		assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain title", input: "Go Modules", want: "Go Modules"},
		{name: "reserved characters", input: `a<b>c:d"e/f\g|h?i*j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{name: "surrounding space", input: "  Title  ", want: "Title"},
		{name: "trailing dots", input: "Wait...", want: "Wait"},
		{name: "unicode kept", input: "提取的文章", want: "提取的文章"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, webextract.SanitizeFilename(tt.input))
		})
	}

	t.Run("truncates on rune boundary", func(t *testing.T) {
		t.Parallel()

		got := webextract.SanitizeFilename(strings.Repeat("文", 100))

		assert.LessOrEqual(t, len(got), webextract.MaxFilenameLength)
		assert.Equal(t, strings.Repeat("文", 66), got)
	})
}
