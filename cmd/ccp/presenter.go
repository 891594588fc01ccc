package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/complicopilot/ccp-cli/internal/wizard"
)

// consolePresenter renders the wizard on a terminal: steps and toasts
// become lines on stdout, blocking alerts go to stderr.
type consolePresenter struct{}

func (consolePresenter) ShowStep(s wizard.State) {
	fmt.Printf("--- step: %s ---\n", s)
}

func (consolePresenter) Notify(title, message string, level wizard.NotifyLevel) {
	fmt.Printf("[%s] %s: %s\n", level, title, message)
}

func (consolePresenter) Alert(message string) {
	fmt.Fprintf(os.Stderr, "ALERT: %s\n", message)
}

func (consolePresenter) Progress(current, total int) {
	fmt.Printf("Uploading and processing file %d of %d...\n", current, total)
}

func (consolePresenter) ShowReviewForm(v receipt.FormValues) {
	fmt.Println("Review:")
	fmt.Printf("  vendor:     %s\n", v.Vendor)
	fmt.Printf("  date:       %s\n", v.Date)
	if v.HasAmount {
		fmt.Printf("  amount:     %s\n", strconv.FormatFloat(v.Amount, 'f', -1, 64))
	} else {
		fmt.Printf("  amount:     (enter manually)\n")
	}
	fmt.Printf("  category:   %s\n", v.Category)
	if v.GSTINMissing {
		fmt.Printf("  gstin:      ! %s\n", v.GSTINHint)
	} else {
		fmt.Printf("  gstin:      %s\n", v.GSTIN)
	}
	if v.HasTaxAmount {
		fmt.Printf("  tax amount: %s\n", strconv.FormatFloat(v.TaxAmount, 'f', -1, 64))
	}
}

func (consolePresenter) ShowPreview(path string) {
	fmt.Printf("Preview written to %s\n", path)
}
