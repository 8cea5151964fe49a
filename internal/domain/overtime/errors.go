package overtime

import "errors"

var (
	ErrOvertimeNotFound         = errors.New("overtime request not found")
	ErrOverlappingOvertime      = errors.New("overtime overlaps an existing request")
	ErrOvertimeAlreadyProcessed = errors.New("overtime request already processed")
	ErrNotRequestOwner          = errors.New("overtime request belongs to another employee")
	ErrReportRangeTooLarge      = errors.New("report range is too large")
)
