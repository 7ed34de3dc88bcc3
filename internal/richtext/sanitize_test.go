package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_VacuousMarkupIsEmpty(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\t",
		"<p></p>",
		"<p><br></p>",
		"<p><br/></p>",
		"<p> <br /> </p>",
		"<P> <BR> </P>",
		"<p>   </p>\n<p><br/></p>",
		"<p>&nbsp;</p>",
		"<p class=\"ql-align-center\"><br></p>",
		"<br><br>",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, "", Sanitize(in))
			assert.True(t, IsEmpty(in))
		})
	}
}

func TestSanitize_KeepsContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain paragraph", "<p>hello</p>", "<p>hello</p>"},
		{"trailing empty paragraph stripped", "<p>hello</p><p><br></p>", "<p>hello</p>"},
		{"leading empty paragraph stripped", "<p></p><p>hi</p>", "<p>hi</p>"},
		{"inline formatting", "<p><strong>bold</strong> move</p>", "<p><strong>bold</strong> move</p>"},
		{"editor class kept", `<p class="ql-align-center">hi</p>`, `<p class="ql-align-center">hi</p>`},
		{"bare text", "  just text ", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_DropsActiveContent(t *testing.T) {
	assert.Equal(t, "<p>x</p>", Sanitize("<script>alert(1)</script><p>x</p>"))
	assert.Equal(t, "<p>hi</p>", Sanitize(`<p onclick="steal()">hi</p>`))
	assert.Equal(t, "", Sanitize("<script>alert(1)</script>"))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello & bye\nsecond", PlainText("<p>Hello &amp; bye</p><p>second</p>"))
	assert.Equal(t, "one\ntwo", PlainText("one<br>two"))
	assert.Equal(t, "bold text", PlainText("<p><strong>bold</strong> text</p>"))
	assert.Equal(t, "", PlainText(""))
}
