package expense

// View identifies which screen the UI shows. It is the single source of
// navigation truth; there is no history stack.
type View string

const (
	ViewDashboard View = "DASHBOARD"
	ViewCapture   View = "CAPTURE"
	ViewReview    View = "REVIEW"
	ViewHistory   View = "HISTORY"
	ViewSettings  View = "SETTINGS"
	ViewStats     View = "STATS"
)

// ParseView maps a string onto the closed view set. Unknown values fall
// back to the dashboard.
func ParseView(s string) View {
	switch View(s) {
	case ViewCapture, ViewReview, ViewHistory, ViewSettings, ViewStats:
		return View(s)
	default:
		return ViewDashboard
	}
}
