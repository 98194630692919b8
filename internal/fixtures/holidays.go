package fixtures

// PublicHolidays is the fixed national-holiday calendar consulted by the
// retroactive repair job, keyed MM-DD. Recurring yearly.
var PublicHolidays = map[string]string{
	"01-26": "Republic Day",
	"05-01": "Labour Day",
	"08-15": "Independence Day",
	"10-02": "Gandhi Jayanti",
	"12-25": "Christmas",
}
