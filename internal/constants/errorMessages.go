package constants

// API error messages
const (
	MsgInvalidPage          = "Invalid page parameter"
	MsgAircraftNotFound     = "Aircraft not found"
	MsgFlightNotFound       = "Flight not found"
	MsgListAircraftFailed   = "Failed to list aircraft"
	MsgListFlightsFailed    = "Failed to list flights"
	MsgLoadAircraftFailed   = "Failed to load aircraft"
	MsgLoadFlightFailed     = "Failed to load flight"
	MsgDeleteAircraftFailed = "Failed to delete aircraft"
	MsgStatsFailed          = "Failed to load stats"
	MsgExportFailed         = "Failed to export logbook"
	MsgUploadTooLarge       = "Upload too large"
)
