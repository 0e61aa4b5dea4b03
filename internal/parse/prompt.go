package parse

import (
	"bytes"
	"sync"
	"text/template"
	"time"
)

// systemPromptTmpl is the instruction template sent with every extraction
// request. It is parameterized by the current date so the service can resolve
// relative postings ("2 days ago") to absolute dates.
var systemPromptTmpl = template.Must(template.New("system_prompt").Parse(`Extract structured data from job description. Return valid JSON only—no markdown.

Search ALL sections for salary/compensation: header, benefits, requirements. Look for: LPA, lakhs, per annum/year/month, hourly rate, salary ranges, competitive salary.

Salary handling:
- Found in JD: Extract exactly as written, set salaryEstimated: false
- Not found: Leave salaryMin and salaryMax as null, set salaryEstimated: false (will be estimated programmatically)
- Extract in original currency/period - conversion to INR yearly handled programmatically
- Do NOT estimate salary in this step - only extract if explicitly mentioned in JD
- Indian LPA: 1 LPA = 100,000 INR. "7-11 LPA" → salaryMin: 700000, salaryMax: 1100000, salaryCurrency: "INR", salaryPeriod: "yearly". No rounding.
- Other: use absolute numbers (e.g. "80k-120k" USD → 80000, 120000). Never use thousands (e.g. 80 for 80k).

Date parsing:
- For relative dates like "Reposted 6 hours ago", "Posted 2 days ago", "3 weeks ago", calculate actual date: today minus the time period
- For absolute dates, use YYYY-MM-DD format
- If only "Reposted" without time, use today's date
- Current date context: {{.Today}}
- Examples: "6 hours ago" → {{.SixHoursAgo}}, "2 days ago" → {{.TwoDaysAgo}}

Tech stack extraction - BE COMPREHENSIVE AND EXHAUSTIVE:
CRITICAL: Extract EVERY technology, tool, service, framework, library, and skill mentioned in the JD, regardless of context, section, or phrasing.

Extraction rules (apply to ALL job descriptions):
1. Extract technologies mentioned in parentheses: "AWS (EC2, Lambda, RDS)" → Extract: ["AWS", "EC2", "Lambda", "RDS"]
2. Extract from "familiarity with", "experience with", "knowledge of", "proficiency in" contexts
3. Extract both parts of compound mentions: "JavaScript/TypeScript", "Python/Java" → Extract ALL parts separately
4. Extract platform names AND their services: both "AWS" and individual services like "EC2", "Lambda"
5. Extract from ALL sections: Requirements, Qualifications, Responsibilities, Preferred Qualifications, Nice-to-have, Skills
6. Extract variations and aliases once, canonically: "Node.js" and "NodeJS" → "Node.js"; "PostgreSQL" and "Postgres" → "PostgreSQL"
7. Version numbers: "React 18", "Python 3.9" → Extract as "React" and "Python"
8. Extract from bullet points, lists, and paragraphs alike
9. Use canonical casing: "JUnit" not "Junit", "REST" not "Rest"

Categories of technologies to extract (NOT exhaustive - extract ANY technology mentioned):
- Cloud platforms and their services: AWS, GCP, Azure (extract platform AND all services: EC2, Lambda, S3, BigQuery, Azure Functions, ...)
- Programming languages: Python, JavaScript, TypeScript, Java, Go, Rust, C++, C#, PHP, Ruby, Swift, Kotlin, Scala, R, Perl
- Web/backend frameworks: React, Vue, Angular, Next.js, Express, FastAPI, Flask, Django, Spring Boot, Laravel, Rails, ASP.NET
- Databases: PostgreSQL, MySQL, MongoDB, Redis, Cassandra, Elasticsearch, Oracle, SQL Server
- Data tools: Spark, Hadoop, Airflow, dbt, Pandas, NumPy, PySpark, Jupyter, Databricks
- Streaming: Kafka, RabbitMQ, Kinesis, Pub/Sub
- ML/AI: TensorFlow, PyTorch, Scikit-learn, Keras, XGBoost, OpenCV, NLTK, spaCy
- Containerization/CI/CD: Docker, Kubernetes, Helm, GitHub Actions, Jenkins, GitLab CI, CircleCI
- Monitoring: Prometheus, Grafana, Datadog, New Relic, Splunk, ELK Stack
- APIs: REST, GraphQL, gRPC, WebSocket
- Testing: Jest, Mocha, Cypress, Playwright, Selenium, pytest, JUnit
- Build tools and package managers: Webpack, Vite, Babel, npm, yarn, pip, Maven, Gradle
- Collaboration: Slack, Jira, Confluence, Notion, Figma
- Styling: CSS, SASS, Tailwind CSS, Bootstrap, Material-UI
- Version control: Git, GitHub, GitLab, Bitbucket
- Architecture patterns and methodologies: Microservices, Serverless, Event-driven, Agile, Scrum

IMPORTANT: Put ALL extracted technologies in the techStack array. Do not skip any technology, even if it's mentioned as "familiarity with" or in parentheses.

Tech stack normalization - categorize into techStackNormalized:
- languages: Programming languages
- frameworks: Web/app frameworks (ReactJS, Next.js, FastAPI, Node.js, Express, ...)
- databases: All databases
- devOps: Cloud services, containers, CI/CD, monitoring (AWS, EC2, Lambda, Docker, Kubernetes, GitHub Actions, Prometheus, Grafana, ...)
- data: Data processing tools (PySpark, Pandas, Spark, Airflow, dbt, Kafka, RabbitMQ, ...)
- apis, testing, styling, collaborationTools, stateManagement, buildTools, packageManagers, concepts, versionControl, architecture, methodologies, designPrinciples, operatingSystems: as applicable

Output format:
{
  "title": "exact title or ''",
  "company": "company name or ''",
  "companyPublisher": "publisher or null",
  "location": "full location or ''",
  "salaryMin": number_or_null,
  "salaryMax": number_or_null,
  "salaryCurrency": "USD|EUR|GBP|INR|etc or null",
  "salaryPeriod": "yearly|monthly|hourly or null",
  "salaryEstimated": boolean,
  "techStack": ["ALL mentioned tech/tools/skills - be comprehensive"],
  "techStackNormalized": {
    "languages": [], "frameworks": [], "databases": [], "devOps": [],
    "data": [], "apis": [], "testing": [], "styling": [], "collaborationTools": [],
    "stateManagement": [], "buildTools": [], "packageManagers": [], "concepts": [],
    "versionControl": [], "architecture": [], "methodologies": [], "designPrinciples": [],
    "operatingSystems": []
  },
  "role": "role name or title",
  "experience": "0-2 years|2+ years|Not specified",
  "jobType": "full-time|part-time|contract|on-site|remote|hybrid or null",
  "availability": "ASAP|Immediate|etc or null",
  "product": "product name or null",
  "seniority": "junior|mid|senior or null",
  "collaborationTools": ["Slack","Jira"] or null,
  "source": "LinkedIn|Indeed|etc or ''",
  "applicantsCount": number_or_null,
  "education": "degree requirements or null",
  "postedAt": "YYYY-MM-DD or null"
}

Seniority inference: lead/senior/principal/architect/manager→senior, junior/entry/associate/intern/0-2yrs→junior, mid/3-6yrs→mid
Experience extraction - CRITICAL PRIORITY RULES:
1. ALWAYS check BOTH Requirements AND Qualifications sections
2. If Requirements says "2+ years" BUT Qualifications says "0-2 years", ALWAYS use Qualifications (actual requirement)
3. Qualifications section typically contains the ACTUAL minimum requirement, Requirements may be aspirational
4. If only one section exists, use that section; if conflicting, ALWAYS prioritize Qualifications
Missing data: null for optional, "" for required strings, [] for arrays. No placeholders like "Unknown" or "N/A".`))

type promptParams struct {
	Today       string
	SixHoursAgo string
	TwoDaysAgo  string
}

// promptCache renders the instruction template once per calendar day. The
// rendered prompt only changes when the date does, so re-rendering per
// request would be wasted work.
type promptCache struct {
	mu       sync.Mutex
	now      func() time.Time
	rendered string
	day      string
}

func newPromptCache(now func() time.Time) *promptCache {
	if now == nil {
		now = time.Now
	}
	return &promptCache{now: now}
}

// SystemPrompt returns the instruction text for the current date.
func (p *promptCache) SystemPrompt() string {
	today := p.now().UTC()
	day := today.Format("2006-01-02")

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rendered != "" && p.day == day {
		return p.rendered
	}

	var buf bytes.Buffer
	// Template and params are static; Execute cannot fail here.
	_ = systemPromptTmpl.Execute(&buf, promptParams{
		Today:       day,
		SixHoursAgo: today.Add(-6 * time.Hour).Format("2006-01-02"),
		TwoDaysAgo:  today.AddDate(0, 0, -2).Format("2006-01-02"),
	})

	p.rendered = buf.String()
	p.day = day
	return p.rendered
}
