package http

import (
	"net/url"
	"testing"
)

func TestPageLinks(t *testing.T) {
	cases := []struct {
		name string
		p    Pagination
		want string
	}{
		{
			name: "middle",
			p:    Pagination{Offset: 2, Limit: 2, Total: 5},
			want: `</v1/searches/recent?limit=2&offset=0>; rel="first", ` +
				`</v1/searches/recent?limit=2&offset=0>; rel="prev", ` +
				`</v1/searches/recent?limit=2&offset=4>; rel="next", ` +
				`</v1/searches/recent?limit=2&offset=4>; rel="last"`,
		},
		{
			name: "single page",
			p:    Pagination{Offset: 0, Limit: 20, Total: 3},
			want: `</v1/searches/recent?limit=20&offset=0>; rel="first", ` +
				`</v1/searches/recent?limit=20&offset=0>; rel="last"`,
		},
		{
			name: "empty log",
			p:    Pagination{Offset: 0, Limit: 20, Total: 0},
			want: `</v1/searches/recent?limit=20&offset=0>; rel="first", ` +
				`</v1/searches/recent?limit=20&offset=0>; rel="last"`,
		},
		{
			name: "last page aligned to limit",
			p:    Pagination{Offset: 10, Limit: 10, Total: 20},
			want: `</v1/searches/recent?limit=10&offset=0>; rel="first", ` +
				`</v1/searches/recent?limit=10&offset=0>; rel="prev", ` +
				`</v1/searches/recent?limit=10&offset=10>; rel="last"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pageLinks("/v1/searches/recent", nil, tc.p); got != tc.want {
				t.Errorf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

func TestPageLinks_KeepsOtherParams(t *testing.T) {
	query := url.Values{"offset": {"0"}, "limit": {"5"}, "fmt": {"short"}}
	got := pageLinks("/v1/searches/recent", query, Pagination{Offset: 0, Limit: 5, Total: 5})

	want := `</v1/searches/recent?fmt=short&limit=5&offset=0>; rel="first", ` +
		`</v1/searches/recent?fmt=short&limit=5&offset=0>; rel="last"`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if query.Get("offset") != "0" || query.Get("limit") != "5" {
		t.Errorf("request query was modified: %v", query)
	}
}
