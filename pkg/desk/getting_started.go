package desk

import (
	"github.com/verdra/cadesk/pkg/desk/overlay"
)

// newGettingStartedDialog builds the first-run welcome dialog.
// Build it when opening (not at init time) so it reflects current state.
func newGettingStartedDialog(reviewer string) *overlay.Dialog {
	d := overlay.New("Welcome to cadesk!",
		overlay.WithWidth(64),
		overlay.WithCloseOnBackdropClick(false),
		overlay.WithPrimaryAction("got-it"))

	greeting := "cadesk is the review desk for the allowance platform."
	if reviewer != "" {
		greeting = "Hi " + reviewer + " — cadesk is the review desk for the allowance platform."
	}
	d.AddSection(overlay.Text(greeting +
		"\nIt works the queues the server exposes: onboarding, deposits, and contact requests."))

	d.AddSection(overlay.Spacer())

	d.AddSection(overlay.Text(
		"PANELS:\n" +
			"  Tab cycles Users / Deposits / Contacts\n" +
			"  / filters the active panel, r refreshes"))

	d.AddSection(overlay.Spacer())

	d.AddSection(overlay.Text(
		"REVIEW ACTIONS:\n" +
			"  enter: open details   a: approve   x: reject\n" +
			"  c: confirm deposit    u: upload document"))

	d.AddSection(overlay.Spacer())

	d.AddSection(overlay.MutedTextSection(
		"Destructive actions ask for confirmation; rejections require typing " + rejectPhrase + "."))

	d.AddSection(overlay.Spacer())

	d.AddSection(overlay.Buttons(overlay.Btn(" Got it ", "got-it")))

	return d
}
