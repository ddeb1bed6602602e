// Package overlay provides the dialog lifecycle shared by every modal
// surface in the desk: open/close state transitions that never clip an
// in-progress exit animation, Tab focus trapping, Escape and backdrop-click
// dismissal, and gating of destructive confirm actions behind a typed
// phrase or an in-flight request.
//
// # Quick Start
//
//	d := overlay.New("Reject user?", overlay.WithVariant(overlay.VariantDanger)).
//	    AddSection(overlay.Text("Type REJECT to confirm.")).
//	    AddSection(overlay.Spacer()).
//	    AddSection(overlay.Buttons(
//	        overlay.Btn(" Reject ", "reject", overlay.BtnDanger(), overlay.BtnEnabledWhen(d.CanConfirm)),
//	        overlay.Btn(" Cancel ", "cancel"),
//	    ))
//
//	// In Update():
//	if action, cmd := d.HandleKey(keyMsg); action != "" {
//	    switch action {
//	    case "reject":
//	        return m, d.SubmitConfirm(rejectUser)
//	    case "cancel":
//	        return m, d.RequestClose()
//	    }
//	}
//
//	// In View():
//	view = d.Render(view, screenW, screenH)
//
// A dialog is in exactly one of three states: closed, open, or closing. The
// closing state exists so the exit animation can finish rendering the last
// content snapshot even after the host has cleared its own reference; the
// host's OnClose callback fires exactly once per cycle, when the animation
// completes. Re-entrant close requests during the exit are dropped, and a
// new Open while closing abandons the old cycle without firing its OnClose.
//
// Nested dialogs go through Stack, which reference-counts the host input
// lock and routes input to the top dialog only.
package overlay
