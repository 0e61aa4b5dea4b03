package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jobsieve/jobsieve/internal/model"
)

// recordFromPayload builds a Record from the decoded service payload,
// sanitizing every field independently so one wrong-typed value never
// poisons its neighbors. Required strings stay "" when the posting does not
// supply them; an incomplete payload still yields a record.
func recordFromPayload(payload map[string]any) *model.Record {
	rec := &model.Record{
		Title:    requiredString(payload, "title", maxTitleLen),
		Company:  requiredString(payload, "company", maxCompanyLen),
		Location: requiredString(payload, "location", maxLocationLen),
		Role:     requiredString(payload, "role", maxRoleLen),

		CompanyPublisher: optionalString(payload, "companyPublisher", maxCompanyLen),
		Experience:       requiredString(payload, "experience", maxExperienceLen),
		JobType:          optionalString(payload, "jobType", maxShortLen),
		Availability:     optionalString(payload, "availability", maxShortLen),
		Product:          optionalString(payload, "product", maxShortLen),
		Seniority:        optionalString(payload, "seniority", maxShortLen),
		Education:        optionalString(payload, "education", maxEducationLen),
		PostedAt:         optionalString(payload, "postedAt", maxPostedAtLen),
		Source:           requiredString(payload, "source", maxSourceLen),

		SalaryMin:       cleanNumber(payload["salaryMin"]),
		SalaryMax:       cleanNumber(payload["salaryMax"]),
		ApplicantsCount: cleanNumber(payload["applicantsCount"]),

		TechStack:          stringList(payload, "techStack", maxTechItemLen),
		TechCategories:     categoryMap(payload["techStackNormalized"]),
		CollaborationTools: stringList(payload, "collaborationTools", maxCollabItemLen),
	}

	if currency := cleanCurrency(payload["salaryCurrency"]); currency != "" {
		rec.SalaryCurrency = &currency
	}
	if period := cleanPeriod(payload["salaryPeriod"]); period != "" {
		rec.SalaryPeriod = &period
	}

	if rec.Role == "" {
		rec.Role = rec.Title
	}
	if rec.Experience == "" {
		rec.Experience = "Not specified"
	}
	return rec
}

var (
	openEndedYearsRe = regexp.MustCompile(`^(\d+)\s*\+`)
	rangeYearsRe     = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)\s*\+?\s*(?:years?|yrs?)`)
)

// resolveExperience corrects an open-ended experience reading against the
// posting text. Postings often state "N+ years" in the requirements header
// while the qualifications list gives the real entry range "A-B years" with
// B equal to N; the explicit range wins.
func resolveExperience(extracted, text string) string {
	m := openEndedYearsRe.FindStringSubmatch(strings.TrimSpace(extracted))
	if m == nil {
		return extracted
	}
	floor := m[1]

	for _, rm := range rangeYearsRe.FindAllStringSubmatch(text, -1) {
		if rm[2] == floor && rm[1] != floor {
			return fmt.Sprintf("%s-%s years", rm[1], rm[2])
		}
	}
	return extracted
}
