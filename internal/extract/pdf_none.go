//go:build nopdf

package extract

// BuiltinPDFReader returns NoPDF: this binary was built without PDF support.
func BuiltinPDFReader() PDFReader { return NoPDF }
