package cite

// Embedded en-US locale terms. Only English output is supported; other UI
// locales still cite in English.

var longMonths = [13]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var shortMonths = [13]string{
	"", "Jan.", "Feb.", "Mar.", "Apr.", "May", "June",
	"July", "Aug.", "Sept.", "Oct.", "Nov.", "Dec.",
}

const (
	termNoDate    = "n.d."
	termAvailable = "Available at"
	termAccessed  = "Accessed"
	termAnd       = "and"
	termEtAl      = "et al."
)

func monthName(m int, short bool) string {
	if m < 1 || m > 12 {
		return ""
	}
	if short {
		return shortMonths[m]
	}
	return longMonths[m]
}
