package attendance

import (
	"strings"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkRequest struct {
	Username string  `json:"username"`
	Date     string  `json:"date"` // YYYY-MM-DD; handler defaults to today when empty
	WorkMode string  `json:"work_mode"`
	ClockIn  string  `json:"clock_in"` // HH:MM
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`

	UpdatedBy string `json:"-"` // actor, from token claims
	TenantID  string `json:"-"`
}

func (r *MarkRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidClock(r.ClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be in HH:MM format",
		})
	}

	// Normalize before checking: every downstream comparison is
	// case-sensitive, so the accepted value must be the stored value
	r.WorkMode = strings.ToLower(r.WorkMode)
	if r.WorkMode == "" {
		r.WorkMode = WorkModeOffice // Default work mode
	} else if !validator.IsInSlice(r.WorkMode, ValidWorkModes) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: office, remote-home, remote-other",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	Username string `json:"username"`
	Date     string `json:"date"` // YYYY-MM-DD; handler defaults to today when empty

	UpdatedBy string `json:"-"`
	TenantID  string `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AutoAbsentRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	// ActiveUsernames is the roster snapshot to fill gaps against. When
	// empty the service pulls the tenant's active roster itself.
	ActiveUsernames []string `json:"active_usernames,omitempty"`

	TenantID string `json:"-"`
}

func (r *AutoAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MarkHolidayRequest struct {
	Date           string `json:"date"` // YYYY-MM-DD
	HolidayName    string `json:"holiday_name"`
	MarkAllPresent bool   `json:"mark_all_present"`

	MarkedBy string `json:"-"`
	TenantID string `json:"-"`
}

func (r *MarkHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.HolidayName) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkDateUpdateRequest struct {
	Username  string  `json:"username"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD
	EndDate   string  `json:"end_date"`   // YYYY-MM-DD, inclusive
	Status    string  `json:"status"`
	Location  *string `json:"location,omitempty"`

	UpdatedBy string `json:"-"`
	TenantID  string `json:"-"`
}

func (r *BulkDateUpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	start, startValid := validator.IsValidDate(r.StartDate)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(r.EndDate)
	if !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	r.Status = strings.ToLower(r.Status)
	if !validator.IsInSlice(r.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half-day, leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SummaryRequest struct {
	Username  string `json:"username"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive

	TenantID string `json:"-"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	start, startValid := validator.IsValidDate(r.StartDate)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(r.EndDate)
	if !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES / RESULTS
// ========================================

type RecordResponse struct {
	Username    string  `json:"username"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	WorkMode    *string `json:"work_mode,omitempty"`
	ClockIn     *string `json:"clock_in,omitempty"`
	ClockOut    *string `json:"clock_out,omitempty"`
	Location    *string `json:"location,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	IsHoliday   bool    `json:"is_holiday"`
	HolidayName *string `json:"holiday_name,omitempty"`
	UpdatedBy   string  `json:"updated_by,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

type MarkHolidayResult struct {
	Date               string `json:"date"`
	HolidayName        string `json:"holiday_name"`
	UsersMarkedPresent int    `json:"users_marked_present"`
	UsersFailed        int    `json:"users_failed"`
}

type RepairResult struct {
	DatesChecked int      `json:"dates_checked"`
	IssuesFound  int      `json:"issues_found"`
	IssuesFixed  int      `json:"issues_fixed"`
	HolidayDates []string `json:"holiday_dates"`
	Summary      string   `json:"summary"`
}

type SkippedDay struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

type BulkDateUpdateResult struct {
	DaysProcessed  int          `json:"days_processed"`
	RecordsCreated int          `json:"records_created"`
	RecordsUpdated int          `json:"records_updated"`
	SkippedDays    []SkippedDay `json:"skipped_days"`
}

// RangeSummary is derived on read; nothing in it is persisted.
type RangeSummary struct {
	Username  string `json:"username"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	TotalDays       int `json:"total_days"`
	DaysWithRecords int `json:"days_with_records"`

	Present int `json:"present"`
	Absent  int `json:"absent"`
	HalfDay int `json:"half_day"`
	Leave   int `json:"leave"`

	ByWorkMode map[string]int `json:"by_work_mode"`

	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
}
