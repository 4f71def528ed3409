package urlstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetParameter(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		param  string
		want   string
		wantOK bool
	}{
		{"absent without query", "http://book.example/setup/intro.html", "q", "", false},
		{"absent with other params", "http://book.example/?a=1&b=2", "q", "", false},
		{"simple value", "http://book.example/?q=install", "q", "install", true},
		{"among others", "http://book.example/?a=1&q=install&b=2", "q", "install", true},
		{"plus is space", "http://book.example/?q=quick+start", "q", "quick start", true},
		{"percent decoded", "http://book.example/?q=caf%C3%A9%20au%20lait", "q", "café au lait", true},
		{"encoded plus stays plus", "http://book.example/?q=c%2B%2B", "q", "c++", true},
		{"present without value", "http://book.example/?q", "q", "", true},
		{"present with empty value", "http://book.example/?q=&a=1", "q", "", true},
		{"before fragment", "http://book.example/?q=install#section-2", "q", "install", true},
		{"ignores fragment", "http://book.example/#?q=install", "q", "", false},
		{"case insensitive name", "http://book.example/?Q=install", "q", "install", true},
		{"prefix is not a match", "http://book.example/?query=install", "q", "", false},
		{"first occurrence wins", "http://book.example/?q=one&q=two", "q", "one", true},
		{"malformed escape is absent", "http://book.example/?q=%zz", "q", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetParameter(tt.url, tt.param)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetParameter(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		value string
		want  string
	}{
		{"append to bare url", "http://book.example/intro.html", "install", "http://book.example/intro.html?q=install"},
		{"append to existing query", "http://book.example/?a=1", "install", "http://book.example/?a=1&q=install"},
		{"append to empty query", "http://book.example/?", "install", "http://book.example/?q=install"},
		{"append keeps fragment", "http://book.example/intro.html#top", "install", "http://book.example/intro.html?q=install#top"},
		{"replace in place", "http://book.example/?a=1&q=old&b=2", "new", "http://book.example/?a=1&q=new&b=2"},
		{"replace keeps fragment", "http://book.example/?q=old#top", "new", "http://book.example/?q=new#top"},
		{"replace valueless", "http://book.example/?q&a=1", "new", "http://book.example/?q=new&a=1"},
		{"encodes value", "http://book.example/", "quick start & more", "http://book.example/?q=quick%20start%20%26%20more"},
		{"encodes unicode", "http://book.example/", "café", "http://book.example/?q=caf%C3%A9"},
		{"keeps unreserved marks", "http://book.example/", "a-b_c.d!e~f*g'h(i)", "http://book.example/?q=a-b_c.d!e~f*g'h(i)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SetParameter(tt.url, "q", tt.value))
		})
	}
}

func TestRemoveParameter(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"only parameter", "http://book.example/?q=install", "http://book.example/"},
		{"only parameter with fragment", "http://book.example/?q=install#top", "http://book.example/#top"},
		{"first of many", "http://book.example/?q=install&a=1", "http://book.example/?a=1"},
		{"middle", "http://book.example/?a=1&q=install&b=2", "http://book.example/?a=1&b=2"},
		{"last", "http://book.example/?a=1&q=install", "http://book.example/?a=1"},
		{"all occurrences", "http://book.example/?q=1&a=1&q=2", "http://book.example/?a=1"},
		{"absent is unchanged", "http://book.example/?a=1#top", "http://book.example/?a=1#top"},
		{"no query is unchanged", "http://book.example/intro.html", "http://book.example/intro.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveParameter(tt.url, "q"))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	urls := []string{
		"http://book.example/intro.html",
		"http://book.example/?lang=en&theme=dark#chapter-2",
		"http://book.example/?a=%2Fraw%2F&&b=x+y#frag?with=query",
		"/relative/page.html?q=previous",
	}
	values := []string{"install", "quick start", "c++ & go", "100%", "日本語", "a=b&c=d", ""}

	for _, rawURL := range urls {
		for _, value := range values {
			updated := SetParameter(rawURL, "q", value)

			got, ok := GetParameter(updated, "q")
			assert.True(t, ok, "url %q value %q", rawURL, value)
			assert.Equal(t, value, got, "url %q", rawURL)

			// Unrelated parameters and the fragment are untouched
			before := parse(RemoveParameter(rawURL, "q"))
			after := parse(RemoveParameter(updated, "q"))
			assert.Equal(t, before.query, after.query)
			assert.Equal(t, before.fragment, after.fragment)
			assert.Equal(t, before.base, after.base)
		}
	}
}

func TestCodec(t *testing.T) {
	codec := NewCodec("")
	assert.Equal(t, DefaultParam, codec.Name)

	url := codec.Sync("http://book.example/?a=1#top", "install")
	assert.Equal(t, "http://book.example/?a=1&q=install#top", url)

	got, ok := codec.Get(url)
	assert.True(t, ok)
	assert.Equal(t, "install", got)

	url = codec.Sync(url, "")
	assert.Equal(t, "http://book.example/?a=1#top", url)

	_, ok = codec.Get(url)
	assert.False(t, ok)

	custom := NewCodec("search")
	assert.Equal(t, "/p?search=x", custom.Set("/p", "x"))
	assert.Equal(t, "/p", custom.Remove("/p?search=x"))
}
