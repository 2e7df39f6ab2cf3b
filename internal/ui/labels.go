package ui

// User-facing strings, kept in one place so the views stay declarative.
const (
	titleSetup   = "NEXTART SETUP"
	titleLoading = "NEXTART: INDEXING"
	titleMain    = "NEXTART"
	titleErrors  = "ERRORS"
	titleFatal   = "NEXTART: ERROR"

	setupWelcome  = "Welcome to nextart. Provide the path to the Roms folder at the root of your SD card."
	setupIndexing = "Your collection is being indexed, please be patient."

	labelRoms          = "roms"
	labelBoxArt        = "box art"
	labelNoBoxArt      = "No box art"
	labelNoRomSelected = "No rom selected"
	labelNoErrors      = "No errors recorded"
	labelLoadingImage  = "Loading image..."

	errNoPath         = "No path selected."
	errCannotNavigate = "Cannot navigate: no collection state available"
)
