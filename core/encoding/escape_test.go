package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello World", "Hello World"},
		{"ampersand", "Alpha & Omega", "Alpha &amp; Omega"},
		{"less than", "a < b", "a &lt; b"},
		{"greater than", "a > b", "a &gt; b"},
		{"quotes preserved", `He said "hello"`, `He said "hello"`},
		{"all three", "<script>&</script>", "&lt;script&gt;&amp;&lt;/script&gt;"},
		{"no double escape", "&lt;", "&amp;lt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLText(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	got := EscapeXMLAttr(`a "quoted" <value> & more`)
	want := "a &quot;quoted&quot; &lt;value&gt; &amp; more"
	if got != want {
		t.Errorf("EscapeXMLAttr = %q, want %q", got, want)
	}
}

func TestMinifyXML(t *testing.T) {
	input := `<?xml version="1.0"?>
<container version="1.0">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf"/>
  </rootfiles>
</container>`
	want := `<?xml version="1.0"?><container version="1.0"><rootfiles><rootfile full-path="OEBPS/content.opf"/></rootfiles></container>`
	if got := MinifyXML(input); got != want {
		t.Errorf("MinifyXML = %q, want %q", got, want)
	}
}

func TestMinifyXMLKeepsInnerText(t *testing.T) {
	input := "<text>keep  this</text>"
	if got := MinifyXML(input); got != input {
		t.Errorf("MinifyXML altered element text: %q", got)
	}
}
