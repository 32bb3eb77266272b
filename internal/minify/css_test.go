package minify

import (
	"strings"
	"testing"
)

func TestCSS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"already minified", ".a{color:red}", ".a{color:red}"},
		{"whitespace and trailing semicolon", ".a { color: red; }", ".a{color:red}"},
		{"comments stripped", "/* header */ .a { color: red }", ".a{color:red}"},
		{"multiline comment", "a {\n  /* line\n  two */\n  top: 0;\n}", "a{top:0}"},
		{"selector list", "h1 ,  h2 { margin : 0 ; padding : 0 }", "h1,h2{margin:0;padding:0}"},
		{"runs collapse", "a\t\n  b   { x : y }", "a b{x:y}"},
		{"inner semicolons kept", ".a{color:red;top:0}", ".a{color:red;top:0}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CSS(tt.in)
			if got != tt.want {
				t.Errorf("CSS(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCSSIdempotent(t *testing.T) {
	inputs := []string{
		"",
		".a { color: red; }",
		"/* c */ body { margin: 0 auto ; }",
		"@media (max-width: 600px) { .b { display : none ; } }",
		"garbage without braces   at all",
	}
	for _, in := range inputs {
		once := CSS(in)
		twice := CSS(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCSSNeverGrows(t *testing.T) {
	inputs := []string{
		"",
		".a{color:red}",
		".a  {  color : red ;  }",
		"/* a very long comment that should disappear entirely */x{y:z}",
		strings.Repeat("div { border : 1px solid black ; } ", 50),
	}
	for _, in := range inputs {
		out := CSS(in)
		if len(out) > len(in) {
			t.Errorf("output longer than input: %d > %d for %q", len(out), len(in), in)
		}
	}
}

func TestCSSUploadExample(t *testing.T) {
	// 19 bytes in, 13 bytes out; the stored size must reflect the minified form.
	in := ".a { color: red; }"
	got := CSS(in)
	if got != ".a{color:red}" {
		t.Fatalf("CSS(%q) = %q, want %q", in, got, ".a{color:red}")
	}
	if len(got) != 13 {
		t.Fatalf("minified length = %d, want 13", len(got))
	}
}
