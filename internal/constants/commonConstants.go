package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixAircraftList   CachePrefix = "AIRCRAFT_LIST_"
	CachePrefixAircraftDetail CachePrefix = "AIRCRAFT_"
	CachePrefixFlightList     CachePrefix = "FLIGHT_LIST_"
	CachePrefixStats          CachePrefix = "LOGBOOK_STATS"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
