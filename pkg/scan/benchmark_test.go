package scan

import (
	"strings"
	"testing"
)

// BenchmarkScanDelimited_Nested measures nested block scanning
func BenchmarkScanDelimited_Nested(b *testing.B) {
	input := strings.Repeat("{a {b {c} d} e}", 20)
	g := Grammar{Start: "{", End: "}", Escape: Ptr(""), AutoNest: &Grammar{}, KeepDelimiters: Ptr(true)}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := New(input)
		for !s.EOS() {
			if _, ok := s.ScanDelimited(g); !ok {
				b.Fatal("scan failed")
			}
		}
	}
}

// BenchmarkScanUntil_Literals measures scan-until with literal terminators
func BenchmarkScanUntil_Literals(b *testing.B) {
	input := strings.Repeat("lorem ipsum dolor sit amet ", 200) + "*/"
	patterns := []Pattern{Literal("*/"), Literal("/*")}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		New(input).ScanUntil(patterns, UntilOptions{IncludePattern: true})
	}
}

// BenchmarkScanDecimal measures decimal scanning
func BenchmarkScanDecimal(b *testing.B) {
	g := DefaultDecimal()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		New("-12,345,678.9000 units").ScanDecimal(g)
	}
}

// BenchmarkCheckLiteral_Insensitive measures case-insensitive literal matching
func BenchmarkCheckLiteral_Insensitive(b *testing.B) {
	s := New("SELECT Straße FROM users")
	s.SetInsensitive(true)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.CheckLiteral("select straße")
	}
}
