// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghostscript

import "fmt"

// buildArgs assembles the Ghostscript argument vector for a PDF/A conversion.
// -sPDFACompatibilityPolicy=1 makes Ghostscript drop constructs it cannot
// express in PDF/A instead of aborting the whole file.
func buildArgs(pdfaPart int, srcPath, outPath string) []string {
	return []string{
		"-dQUIET",
		fmt.Sprintf("-dPDFA=%d", pdfaPart),
		"-dBATCH",
		"-dNOPAUSE",
		"-dNOOUTERSAVE",
		"-sDEVICE=pdfwrite",
		"-sProcessColorModel=DeviceRGB",
		"-sPDFACompatibilityPolicy=1",
		"-sOutputFile=" + outPath,
		srcPath,
	}
}
