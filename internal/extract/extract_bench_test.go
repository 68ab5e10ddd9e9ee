package extract

import (
	"strings"
	"testing"
)

// Benchmark FromHTML on representative filing-like sizes and structures.
func BenchmarkFromHTML(b *testing.B) {
	small := []byte("<html><head><title>t</title></head><body><p>a</p></body></html>")
	medium := makeFiling(50, 60)
	large := makeFiling(400, 400)

	for _, tc := range []struct {
		name  string
		input []byte
	}{{"small", small}, {"medium", medium}, {"large", large}} {
		b.Run(tc.name, func(b *testing.B) {
			b.SetBytes(int64(len(tc.input)))
			for i := 0; i < b.N; i++ {
				_, _ = FromHTML(tc.input, "text/html; charset=utf-8", 0)
			}
		})
	}
}

func makeFiling(paras int, rows int) []byte {
	builder := new(strings.Builder)
	builder.WriteString("<html><head><title>10-K</title><style>td{padding:0}</style></head><body>")
	for i := 0; i < paras; i++ {
		builder.WriteString("<h2>Item 7. Management's Discussion</h2><p>")
		builder.WriteString(sampleText)
		builder.WriteString("</p>")
	}
	builder.WriteString("<table>")
	for i := 0; i < rows; i++ {
		builder.WriteString("<tr><td>Net sales</td><td>$</td><td>391,035</td></tr>")
	}
	builder.WriteString("</table></body></html>")
	return []byte(builder.String())
}

const sampleText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
