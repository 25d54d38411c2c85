package domain

// Canonical column names. Every source gets renamed into this schema before
// the wrangling stages touch it, so joins always run on the same key names.
const (
	// ColStudentKey is the canonical cross-source student identifier. Always
	// treated as opaque text: district exports ship numeric-looking IDs and
	// leading digits matter.
	ColStudentKey = "STUDENT_NUMBER"

	ColLastName   = "LAST_NAME"
	ColFirstName  = "FIRST_NAME"
	ColCohortYear = "COHORTYR"
	ColGradeLevel = "GRADE_LEVEL"
	ColSchoolName = "SCHOOL_NAME"
	ColHouse      = "HOUSE"
	ColExitDate   = "EXITDATE"

	ColCourseNumber = "COURSE_NUMBER"
	ColTermID       = "TERMID"
	ColEarnedCredit = "EARNEDCRHRS"
	ColStatus       = "status"

	ColCourseCode  = "course_code_l"
	ColCourseName  = "course_name_l"
	ColPathwayCode = "pathway_code"
	ColPathway     = "pathway"

	// ColLinkID is the composite "district code + student id" identifier used
	// by the intake workspace (gt_id in the raw exports).
	ColLinkID = "gt_id"

	ColWBLCount        = "WBL_count"
	ColInternshipCount = "internship_count"

	ColAttendancePct = "Attendance_Percentage"
)

// Course record statuses derived during reconciliation.
const (
	StatusEnrolled = "enrolled"
	StatusPassed   = "passed"
	StatusNoCredit = "no credit earned"
)

// Pathway labels that are not named after a flag column.
const (
	PathwayDual = "Dual"
	PathwayNone = "No Pathway"
)

// FlagYes is the marker value a pathway indicator column must hold for the
// flag to count as set. Anything else, including absent, means unset.
const FlagYes = "Yes"
