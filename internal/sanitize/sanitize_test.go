package sanitize

import "testing"

func TestHTML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "plain text",
			in:   "hello world",
			want: "hello world",
		},
		{
			name: "script dropped entirely",
			in:   "<p>hi</p><script>alert(1)</script>",
			want: "<p>hi</p>",
		},
		{
			name: "style dropped entirely",
			in:   "<style>p{color:red}</style><p>hi</p>",
			want: "<p>hi</p>",
		},
		{
			name: "unknown tag unwrapped",
			in:   "<span>hi</span>",
			want: "hi",
		},
		{
			name: "nested content survives unwrap",
			in:   "<section><p>kept</p></section>",
			want: "<p>kept</p>",
		},
		{
			name: "allowed link keeps href and target",
			in:   `<a href="https://example.com" target="_blank">x</a>`,
			want: `<a href="https://example.com" target="_blank">x</a>`,
		},
		{
			name: "javascript href dropped",
			in:   `<a href="javascript:alert(1)">x</a>`,
			want: `<a>x</a>`,
		},
		{
			name: "mailto href kept",
			in:   `<a href="mailto:jobs@example.com">apply</a>`,
			want: `<a href="mailto:jobs@example.com">apply</a>`,
		},
		{
			name: "relative href kept",
			in:   `<a href="/careers">x</a>`,
			want: `<a href="/careers">x</a>`,
		},
		{
			name: "event handler stripped",
			in:   `<img src="/uploads/blogs/a.png" onerror="steal()">`,
			want: `<img src="/uploads/blogs/a.png">`,
		},
		{
			name: "raw ampersand escaped",
			in:   "fish & chips",
			want: "fish &amp; chips",
		},
		{
			name: "lists preserved",
			in:   "<ul><li>one</li><li>two</li></ul>",
			want: "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name: "headings preserved",
			in:   "<h2>About</h2><p>text</p>",
			want: "<h2>About</h2><p>text</p>",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTML(tc.in); got != tc.want {
				t.Errorf("HTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
