package main

import (
	"reflect"
	"testing"
)

func TestRewriteDeepLinkArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"showcase"},
			want: []string{"showcase"},
		},
		{
			name: "url first token",
			in:   []string{"showcase", "http://127.0.0.1:3335/?p=todo&e=full"},
			want: []string{"showcase", "--link", "http://127.0.0.1:3335/?p=todo&e=full"},
		},
		{
			name: "bare query",
			in:   []string{"showcase", "?p=todo"},
			want: []string{"showcase", "--link", "?p=todo"},
		},
		{
			name: "url after value flag",
			in:   []string{"showcase", "--data", "slides.json", "https://example.com/?p=calc"},
			want: []string{"showcase", "--data", "slides.json", "--link", "https://example.com/?p=calc"},
		},
		{
			name: "url after equals flag",
			in:   []string{"showcase", "--data=slides.json", "https://example.com/"},
			want: []string{"showcase", "--data=slides.json", "--link", "https://example.com/"},
		},
		{
			name: "url after bool flag",
			in:   []string{"showcase", "--watch", "-v", "https://example.com/"},
			want: []string{"showcase", "--watch", "-v", "--link", "https://example.com/"},
		},
		{
			name: "url after double dash",
			in:   []string{"showcase", "--pretty", "--", "https://example.com/?p=x"},
			want: []string{"showcase", "--pretty", "--link", "https://example.com/?p=x"},
		},
		{
			name: "value of --data is not rewritten",
			in:   []string{"showcase", "--data", "https://example.com/slides.json"},
			want: []string{"showcase", "--data", "https://example.com/slides.json"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"showcase", "resolve", "https://example.com/?p=x"},
			want: []string{"showcase", "resolve", "https://example.com/?p=x"},
		},
		{
			name: "lone question mark not rewritten",
			in:   []string{"showcase", "?"},
			want: []string{"showcase", "?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDeepLinkArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDeepLinkArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
