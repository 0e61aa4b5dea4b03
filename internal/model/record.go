package model

import "context"

// Salary periods accepted on a Record. After normalization only PeriodYearly
// appears; the others survive only inside a pipeline invocation.
const (
	PeriodHourly  = "hourly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ReferenceCurrency is the currency all monetary values are converted to.
const ReferenceCurrency = "INR"

// TechCategoryKeys is the fixed set of keys allowed in Record.TechCategories.
// Unknown keys from the extraction service are discarded during sanitization.
var TechCategoryKeys = []string{
	"languages",
	"frameworks",
	"stateManagement",
	"data",
	"apis",
	"buildTools",
	"packageManagers",
	"styling",
	"testing",
	"concepts",
	"versionControl",
	"databases",
	"architecture",
	"devOps",
	"methodologies",
	"designPrinciples",
	"operatingSystems",
	"collaborationTools",
}

// TechCategories maps a category key (see TechCategoryKeys) to the
// technologies assigned to it. Every entry also appears in the flat
// Record.TechStack list.
type TechCategories map[string][]string

// Warnings carries non-fatal observability flags from the extraction call.
type Warnings struct {
	JDTruncated       bool `json:"jdTruncated,omitempty"`
	ResponseTruncated bool `json:"responseTruncated,omitempty"`
}

// Record is the normalized, schema-valid output of the extraction pipeline.
// Required string fields are "" (never null) when unknown; optional fields
// are nil pointers. Salary invariant: when SalaryMin or SalaryMax is non-nil,
// SalaryCurrency is the reference currency and SalaryPeriod is yearly.
type Record struct {
	Title              string         `json:"title"`
	Company            string         `json:"company"`
	CompanyPublisher   *string        `json:"companyPublisher"`
	Location           string         `json:"location"`
	SalaryMin          *int64         `json:"salaryMin"`
	SalaryMax          *int64         `json:"salaryMax"`
	SalaryCurrency     *string        `json:"salaryCurrency"`
	SalaryPeriod       *string        `json:"salaryPeriod"`
	SalaryEstimated    bool           `json:"salaryEstimated"`
	TechStack          []string       `json:"techStack"`
	TechCategories     TechCategories `json:"techStackNormalized,omitempty"`
	Role               string         `json:"role"`
	Experience         string         `json:"experience"`
	JobType            *string        `json:"jobType"`
	Availability       *string        `json:"availability"`
	Product            *string        `json:"product"`
	Seniority          *string        `json:"seniority"`
	CollaborationTools []string       `json:"collaborationTools,omitempty"`
	Source             string         `json:"source"`
	ApplicantsCount    *int64         `json:"applicantsCount"`
	Education          *string        `json:"education"`
	PostedAt           *string        `json:"postedAt"`
	Warnings           *Warnings      `json:"warnings,omitempty"`
}

// Store persists extracted records. The pipeline itself never persists; a
// caller that wants durable records implements Store and writes the result
// of each extraction. The returned id identifies the stored record in
// whatever backend the implementation uses.
type Store interface {
	Persist(ctx context.Context, rec *Record) (id string, err error)
}
