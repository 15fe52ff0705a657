package extract

import (
	"fmt"
	"os/exec"
)

// PDFText extracts PDF text by shelling out to pdftotext. This path is
// explicitly best-effort: without the binary installed it fails with a hint
// instead of degrading the rest of the authoring flow.
func PDFText(path string) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("pdf extraction needs the pdftotext binary on PATH: %w", err)
	}

	output, err := exec.Command("pdftotext", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(output), nil
}
