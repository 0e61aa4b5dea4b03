package parse

import "regexp"

// techPattern maps a case-insensitive word-boundary matcher to the canonical
// display name for a technology. The tables below are data only; all control
// flow lives in tech.go, so adding a rule never touches logic.
type techPattern struct {
	re   *regexp.Regexp
	name string
}

func tp(expr, name string) techPattern {
	return techPattern{re: regexp.MustCompile(`(?i)` + expr), name: name}
}

// techPatterns are the single-term fallback matchers, iterated in one pass
// per document. Synonyms map to one canonical name (e.g. golang → Go).
var techPatterns = []techPattern{
	// Languages
	tp(`\bjavascript\b`, "JavaScript"),
	tp(`\btypescript\b`, "TypeScript"),
	tp(`\bpython\b`, "Python"),
	tp(`\bjava\b`, "Java"),
	tp(`\bgolang\b`, "Go"),
	tp(`\bgo\b`, "Go"),
	tp(`\brust\b`, "Rust"),
	tp(`\bc\+\+`, "C++"),
	tp(`\bcpp\b`, "C++"),
	tp(`\bc#`, "C#"),
	tp(`\bcsharp\b`, "C#"),
	tp(`\bphp\b`, "PHP"),
	tp(`\bruby\b`, "Ruby"),
	tp(`\bswift\b`, "Swift"),
	tp(`\bkotlin\b`, "Kotlin"),
	tp(`\bscala\b`, "Scala"),
	tp(`\bperl\b`, "Perl"),
	// AWS
	tp(`\baws\b`, "AWS"),
	tp(`\brds\b`, "RDS"),
	tp(`\belasticache\b`, "ElastiCache"),
	tp(`\bopensearch\b`, "OpenSearch"),
	tp(`\bec2\b`, "EC2"),
	tp(`\blambda\b`, "Lambda"),
	tp(`\becs\b`, "ECS"),
	tp(`\bs3\b`, "S3"),
	tp(`\bcloudfront\b`, "CloudFront"),
	tp(`\bcognito\b`, "AWS Cognito"),
	tp(`\biam\b`, "IAM"),
	tp(`\bvpc\b`, "VPC"),
	tp(`\broute53\b`, "Route53"),
	tp(`\bcloudwatch\b`, "CloudWatch"),
	tp(`\bcloudformation\b`, "CloudFormation"),
	tp(`\bterraform\b`, "Terraform"),
	tp(`\belastic beanstalk\b`, "Elastic Beanstalk"),
	tp(`\bsns\b`, "SNS"),
	tp(`\bsqs\b`, "SQS"),
	tp(`\bapi gateway\b`, "API Gateway"),
	tp(`\bapigateway\b`, "API Gateway"),
	tp(`\bredshift\b`, "Redshift"),
	tp(`\bamazon redshift\b`, "Redshift"),
	tp(`\bsagemaker\b`, "AWS SageMaker"),
	// GCP
	tp(`\bgcp\b`, "GCP"),
	tp(`\bgoogle cloud platform\b`, "GCP"),
	tp(`\bgoogle cloud\b`, "GCP"),
	tp(`\bbigquery\b`, "BigQuery"),
	tp(`\bpub/sub\b`, "Pub/Sub"),
	tp(`\bpubsub\b`, "Pub/Sub"),
	tp(`\bcloud functions\b`, "Cloud Functions"),
	tp(`\bcloud run\b`, "Cloud Run"),
	tp(`\bcloud storage\b`, "Cloud Storage"),
	tp(`\bcloud sql\b`, "Cloud SQL"),
	tp(`\bcloud build\b`, "Cloud Build"),
	tp(`\bvertex ai\b`, "Vertex AI"),
	// Azure
	tp(`\bazure\b`, "Azure"),
	tp(`\bdata factory\b`, "Data Factory"),
	tp(`\bsynapse analytics\b`, "Synapse Analytics"),
	tp(`\bsynapse\b`, "Synapse Analytics"),
	tp(`\bazure functions\b`, "Azure Functions"),
	tp(`\bazure app service\b`, "Azure App Service"),
	tp(`\bazure sql\b`, "Azure SQL"),
	tp(`\bazure devops\b`, "Azure DevOps"),
	tp(`\bazure kubernetes service\b`, "Azure Kubernetes Service"),
	tp(`\baks\b`, "Azure Kubernetes Service"),
	tp(`\bazure ml\b`, "Azure ML"),
	tp(`\bazure machine learning\b`, "Azure ML"),
	// Frontend
	tp(`\breactjs\b`, "ReactJS"),
	tp(`\breact\b`, "ReactJS"),
	tp(`\bnext\.js\b`, "Next.js"),
	tp(`\bnextjs\b`, "Next.js"),
	tp(`\bvue\.js\b`, "Vue.js"),
	tp(`\bvuejs\b`, "Vue.js"),
	tp(`\bvue\b`, "Vue.js"),
	tp(`\bangularjs\b`, "AngularJS"),
	tp(`\bangular\b`, "Angular"),
	tp(`\bsvelte\b`, "Svelte"),
	tp(`\bember\b`, "Ember.js"),
	tp(`\breact native\b`, "React Native"),
	tp(`\bflutter\b`, "Flutter"),
	// Backend frameworks
	tp(`\bfastapi\b`, "FastAPI"),
	tp(`\bflask\b`, "Flask"),
	tp(`\bdjango\b`, "Django"),
	tp(`\bnode\.js\b`, "Node.js"),
	tp(`\bnodejs\b`, "Node.js"),
	tp(`\bexpress\.js\b`, "Express"),
	tp(`\bexpress\b`, "Express"),
	tp(`\bspring boot\b`, "Spring Boot"),
	tp(`\bspringboot\b`, "Spring Boot"),
	tp(`\bspring\b`, "Spring"),
	tp(`\blaravel\b`, "Laravel"),
	tp(`\bruby on rails\b`, "Ruby on Rails"),
	tp(`\brails\b`, "Ruby on Rails"),
	tp(`\basp\.net\b`, "ASP.NET"),
	tp(`\.net\b`, ".NET"),
	tp(`\bdotnet\b`, ".NET"),
	// Databases
	tp(`\bpostgresql\b`, "PostgreSQL"),
	tp(`\bpostgres\b`, "PostgreSQL"),
	tp(`\bmysql\b`, "MySQL"),
	tp(`\bsnowflake\b`, "Snowflake"),
	tp(`\bmongodb\b`, "MongoDB"),
	tp(`\bdynamodb\b`, "DynamoDB"),
	tp(`\bredis\b`, "Redis"),
	tp(`\bcassandra\b`, "Cassandra"),
	tp(`\bcouchdb\b`, "CouchDB"),
	tp(`\belasticsearch\b`, "Elasticsearch"),
	tp(`\belastic search\b`, "Elasticsearch"),
	tp(`\bsqlite\b`, "SQLite"),
	tp(`\boracle\b`, "Oracle"),
	tp(`\bsql server\b`, "SQL Server"),
	tp(`\bsqlserver\b`, "SQL Server"),
	tp(`\bmariadb\b`, "MariaDB"),
	tp(`\bneo4j\b`, "Neo4j"),
	tp(`\binfluxdb\b`, "InfluxDB"),
	tp(`\btimescaledb\b`, "TimescaleDB"),
	// Data tools
	tp(`\bpyspark\b`, "PySpark"),
	tp(`\bpandas\b`, "Pandas"),
	tp(`\bnumpy\b`, "NumPy"),
	tp(`\bapache spark\b`, "Spark"),
	tp(`\bspark\b`, "Spark"),
	tp(`\bapache airflow\b`, "Airflow"),
	tp(`\bairflow\b`, "Airflow"),
	tp(`\bdbt\b`, "dbt"),
	tp(`\bmatplotlib\b`, "Matplotlib"),
	tp(`\bseaborn\b`, "Seaborn"),
	tp(`\bplotly\b`, "Plotly"),
	tp(`\bjupyter\b`, "Jupyter"),
	tp(`\bdatabricks\b`, "Databricks"),
	tp(`\bpresto\b`, "Presto"),
	tp(`\btrino\b`, "Trino"),
	tp(`\bhadoop\b`, "Hadoop"),
	tp(`\bhive\b`, "Hive"),
	tp(`\bimpala\b`, "Impala"),
	tp(`\bapache kafka\b`, "Apache Kafka"),
	tp(`\bkafka\b`, "Apache Kafka"),
	tp(`\brabbitmq\b`, "RabbitMQ"),
	tp(`\bprefect\b`, "Prefect"),
	tp(`\bluigi\b`, "Luigi"),
	tp(`\bdagster\b`, "Dagster"),
	// ML/AI
	tp(`\bscikit-learn\b`, "Scikit-learn"),
	tp(`\bsklearn\b`, "Scikit-learn"),
	tp(`\btensorflow\b`, "TensorFlow"),
	tp(`\bpytorch\b`, "PyTorch"),
	tp(`\bkeras\b`, "Keras"),
	tp(`\bxgboost\b`, "XGBoost"),
	tp(`\blightgbm\b`, "LightGBM"),
	tp(`\bcatboost\b`, "CatBoost"),
	tp(`\bopencv\b`, "OpenCV"),
	tp(`\bnltk\b`, "NLTK"),
	tp(`\bspacy\b`, "spaCy"),
	tp(`\bhugging face\b`, "Hugging Face"),
	tp(`\bhuggingface\b`, "Hugging Face"),
	tp(`\bmlflow\b`, "MLflow"),
	tp(`\bkubeflow\b`, "Kubeflow"),
	tp(`\bweights & biases\b`, "Weights & Biases"),
	tp(`\bwandb\b`, "Weights & Biases"),
	tp(`\bray\b`, "Ray"),
	tp(`\boptuna\b`, "Optuna"),
	// DevOps / CI/CD
	tp(`\bdocker\b`, "Docker"),
	tp(`\bkubernetes\b`, "Kubernetes"),
	tp(`\bk8s\b`, "Kubernetes"),
	tp(`\bhelm\b`, "Helm"),
	tp(`\bgithub actions\b`, "GitHub Actions"),
	tp(`\bjenkins\b`, "Jenkins"),
	tp(`\bargocd\b`, "ArgoCD"),
	tp(`\bargo cd\b`, "ArgoCD"),
	tp(`\bgitlab ci\b`, "GitLab CI"),
	tp(`\bgitlab\b`, "GitLab"),
	tp(`\bcircleci\b`, "CircleCI"),
	tp(`\bcircle ci\b`, "CircleCI"),
	tp(`\btravis ci\b`, "Travis CI"),
	tp(`\bteamcity\b`, "TeamCity"),
	tp(`\bbamboo\b`, "Bamboo"),
	tp(`\bgithub\b`, "GitHub"),
	tp(`\bgit\b`, "Git"),
	tp(`\bbitbucket\b`, "Bitbucket"),
	tp(`\bansible\b`, "Ansible"),
	tp(`\bpuppet\b`, "Puppet"),
	tp(`\bchef\b`, "Chef"),
	tp(`\bsaltstack\b`, "SaltStack"),
	tp(`\bconsul\b`, "Consul"),
	tp(`\bnomad\b`, "Nomad"),
	tp(`\bistio\b`, "Istio"),
	tp(`\blinkerd\b`, "Linkerd"),
	tp(`\benvoy\b`, "Envoy"),
	tp(`\bnginx\b`, "Nginx"),
	tp(`\bapache http server\b`, "Apache HTTP Server"),
	tp(`\bapache\b`, "Apache"),
	tp(`\bpulumi\b`, "Pulumi"),
	tp(`\bcrossplane\b`, "Crossplane"),
	tp(`\bpacker\b`, "Packer"),
	// Monitoring / observability
	tp(`\bprometheus\b`, "Prometheus"),
	tp(`\bgrafana\b`, "Grafana"),
	tp(`\bloki\b`, "Loki"),
	tp(`\bjaeger\b`, "Jaeger"),
	tp(`\bopen telemetry\b`, "Open Telemetry"),
	tp(`\bopentelemetry\b`, "Open Telemetry"),
	tp(`\bzipkin\b`, "Zipkin"),
	tp(`\bsentry\b`, "Sentry"),
	tp(`\brollbar\b`, "Rollbar"),
	tp(`\bappdynamics\b`, "AppDynamics"),
	tp(`\bdynatrace\b`, "Dynatrace"),
	tp(`\bpagerduty\b`, "PagerDuty"),
	tp(`\bopsgenie\b`, "Opsgenie"),
	tp(`\bdatadog\b`, "Datadog"),
	tp(`\bnew relic\b`, "New Relic"),
	tp(`\bnewrelic\b`, "New Relic"),
	tp(`\bsplunk\b`, "Splunk"),
	tp(`\belk stack\b`, "ELK Stack"),
	tp(`\belastic stack\b`, "ELK Stack"),
	tp(`\blogstash\b`, "Logstash"),
	tp(`\bkibana\b`, "Kibana"),
	// APIs & security
	tp(`\brest\b`, "REST"),
	tp(`\bgraphql\b`, "GraphQL"),
	tp(`\bgrpc\b`, "gRPC"),
	tp(`\bwebsocket\b`, "WebSocket"),
	tp(`\bvault\b`, "Vault"),
	tp(`\bokta\b`, "Okta"),
	tp(`\bauth0\b`, "Auth0"),
	tp(`\boauth\b`, "OAuth"),
	tp(`\bjwt\b`, "JWT"),
	tp(`\bjson web token\b`, "JWT"),
	tp(`\bsaml\b`, "SAML"),
	tp(`\bldap\b`, "LDAP"),
	// Testing
	tp(`\bjest\b`, "Jest"),
	tp(`\bmocha\b`, "Mocha"),
	tp(`\bchai\b`, "Chai"),
	tp(`\bcypress\b`, "Cypress"),
	tp(`\bplaywright\b`, "Playwright"),
	tp(`\bselenium\b`, "Selenium"),
	tp(`\bpytest\b`, "pytest"),
	tp(`\bjunit\b`, "JUnit"),
	tp(`\btestng\b`, "TestNG"),
	tp(`\bvitest\b`, "Vitest"),
	// State management
	tp(`\bredux\b`, "Redux"),
	tp(`\bmobx\b`, "MobX"),
	tp(`\bzustand\b`, "Zustand"),
	tp(`\bpinia\b`, "Pinia"),
	tp(`\bvuex\b`, "Vuex"),
	// Build tools & package managers
	tp(`\bwebpack\b`, "Webpack"),
	tp(`\bvite\b`, "Vite"),
	tp(`\brollup\b`, "Rollup"),
	tp(`\bparcel\b`, "Parcel"),
	tp(`\besbuild\b`, "esbuild"),
	tp(`\bbabel\b`, "Babel"),
	tp(`\beslint\b`, "ESLint"),
	tp(`\bprettier\b`, "Prettier"),
	tp(`\bnpm\b`, "npm"),
	tp(`\byarn\b`, "Yarn"),
	tp(`\bpnpm\b`, "pnpm"),
	tp(`\bpip\b`, "pip"),
	tp(`\bconda\b`, "Conda"),
	tp(`\bpoetry\b`, "Poetry"),
	tp(`\bmaven\b`, "Maven"),
	tp(`\bgradle\b`, "Gradle"),
	tp(`\bcomposer\b`, "Composer"),
	tp(`\bcargo\b`, "Cargo"),
	// Collaboration
	tp(`\bslack\b`, "Slack"),
	tp(`\bjira\b`, "Jira"),
	tp(`\bconfluence\b`, "Confluence"),
	tp(`\bnotion\b`, "Notion"),
	tp(`\basana\b`, "Asana"),
	tp(`\btrello\b`, "Trello"),
	tp(`\bfigma\b`, "Figma"),
	tp(`\bmicrosoft teams\b`, "Microsoft Teams"),
	// Styling
	tp(`\bcss\b`, "CSS"),
	tp(`\bsass\b`, "SASS"),
	tp(`\bscss\b`, "SCSS"),
	tp(`\bstyled-components\b`, "Styled Components"),
	tp(`\btailwind css\b`, "Tailwind CSS"),
	tp(`\btailwind\b`, "Tailwind CSS"),
	tp(`\bbootstrap\b`, "Bootstrap"),
	tp(`\bmaterial-ui\b`, "Material-UI"),
	tp(`\bmui\b`, "Material-UI"),
	tp(`\bant design\b`, "Ant Design"),
	tp(`\bantd\b`, "Ant Design"),
	// Analytics / BI
	tp(`\btableau\b`, "Tableau"),
	tp(`\bpower bi\b`, "Power BI"),
	tp(`\bpowerbi\b`, "Power BI"),
	tp(`\bmicrosoft excel\b`, "Excel"),
	tp(`\bexcel\b`, "Excel"),
	tp(`\bsql\b`, "SQL"),
	tp(`\blooker\b`, "Looker"),
	tp(`\bmetabase\b`, "Metabase"),
	tp(`\bapache superset\b`, "Apache Superset"),
	tp(`\bsuperset\b`, "Apache Superset"),
	tp(`\bsas\b`, "SAS"),
	tp(`\bspss\b`, "SPSS"),
	tp(`\bstata\b`, "Stata"),
	tp(`\bmatlab\b`, "MATLAB"),
	tp(`\bgoogle analytics\b`, "Google Analytics"),
	tp(`\bamplitude\b`, "Amplitude"),
	tp(`\bmixpanel\b`, "Mixpanel"),
	tp(`\bsegment\b`, "Segment"),
	tp(`\balteryx\b`, "Alteryx"),
	tp(`\bknime\b`, "KNIME"),
	// Misc
	tp(`\basyncio\b`, "AsyncIO"),
	tp(`\basync io\b`, "AsyncIO"),
	tp(`\bkubernetes operators\b`, "Operators"),
}

// compoundPattern splits a single source mention into multiple canonical
// entries, e.g. "JavaScript/TypeScript".
type compoundPattern struct {
	re    *regexp.Regexp
	names []string
}

var compoundPatterns = []compoundPattern{
	{regexp.MustCompile(`(?i)\bjavascript\s*/\s*typescript\b`), []string{"JavaScript", "TypeScript"}},
	{regexp.MustCompile(`(?i)\btypescript\s*/\s*javascript\b`), []string{"TypeScript", "JavaScript"}},
	{regexp.MustCompile(`(?i)\bpython\s*/\s*java\b`), []string{"Python", "Java"}},
	{regexp.MustCompile(`(?i)\breact\s*/\s*vue\b`), []string{"ReactJS", "Vue.js"}},
}

// parenPatterns recognize "<platform> (<comma-separated services>)" forms,
// including the "familiarity/experience/knowledge of" phrasings. Capture 1 is
// the platform, capture 2 the service list.
var parenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(AWS|GCP|Azure)\s+services\s*\(([^)]+)\)`),
	regexp.MustCompile(`(?i)(?:familiarity\s+with|experience\s+with|knowledge\s+of|proficiency\s+in)\s+(AWS|GCP|Azure)\s*\(([^)]+)\)`),
	regexp.MustCompile(`(?i)(AWS|GCP|Azure)\s*\(([^)]+)\)`),
	regexp.MustCompile(`(?i)(Python|JavaScript|TypeScript|Java|Go|Rust|C\+\+|C#|PHP|Ruby|Swift|Kotlin|Scala)\s*\(([^)]+)\)`),
	regexp.MustCompile(`(\w+(?:\s+\w+)*)\s*\(([^)]+)\)`),
}

// serviceNames maps lowercase service mentions found inside parentheses to
// their canonical display names.
var serviceNames = map[string]string{
	"rds":                     "RDS",
	"amazon rds":              "RDS",
	"elasticache":             "ElastiCache",
	"amazon elasticache":      "ElastiCache",
	"opensearch":              "OpenSearch",
	"amazon opensearch":       "OpenSearch",
	"aws opensearch":          "OpenSearch",
	"ec2":                     "EC2",
	"amazon ec2":              "EC2",
	"lambda":                  "Lambda",
	"aws lambda":              "Lambda",
	"ecs":                     "ECS",
	"amazon ecs":              "ECS",
	"s3":                      "S3",
	"amazon s3":               "S3",
	"cloudfront":              "CloudFront",
	"amazon cloudfront":       "CloudFront",
	"bigquery":                "BigQuery",
	"google bigquery":         "BigQuery",
	"pub/sub":                 "Pub/Sub",
	"pubsub":                  "Pub/Sub",
	"google pub/sub":          "Pub/Sub",
	"google pubsub":           "Pub/Sub",
	"data factory":            "Data Factory",
	"azure data factory":      "Data Factory",
	"synapse analytics":       "Synapse Analytics",
	"synapse":                 "Synapse Analytics",
	"azure synapse":           "Synapse Analytics",
	"azure synapse analytics": "Synapse Analytics",
	"asyncio":                 "AsyncIO",
	"async io":                "AsyncIO",
	"python asyncio":          "AsyncIO",
	"operators":               "Operators",
	"kubernetes operators":    "Operators",
	"k8s operators":           "Operators",
}

// falsePositives are terms the service likes to report as technologies but
// are employment arrangements, compliance acronyms, or marketing phrases.
var falsePositives = map[string]struct{}{
	"on-site":          {},
	"onsite":           {},
	"remote":           {},
	"hybrid":           {},
	"full-time":        {},
	"fulltime":         {},
	"part-time":        {},
	"parttime":         {},
	"contract":         {},
	"gdpr":             {},
	"hipaa":            {},
	"soc2":             {},
	"soc 2":            {},
	"pci":              {},
	"pci dss":          {},
	"iso 27001":        {},
	"healthcare":       {},
	"payers":           {},
	"enterprise level": {},
	"pharmaceutical consulting":                {},
	"management consulting":                    {},
	"hospital systems":                         {},
	"data-analytical solutions":                {},
	"enterprise level data-analytical solutions": {},
}

// genericSiblings drops a generic platform name when a more specific sibling
// is present: key is the generic term, value the prefix/specific form.
var genericSiblings = map[string]string{
	"apache": "apache ",
	"github": "github actions",
	"kafka":  "apache kafka",
}

// allowedLongNames are legitimate technology names that exceed the usual
// length/token limits.
var allowedLongNames = []string{
	"azure synapse analytics",
	"azure data factory",
	"google cloud platform",
	"amazon web services",
}

// Category membership lists for the lexical classifier that back-fills
// techStackNormalized gaps. exactLanguages is matched whole; the others are
// substring tests against the lowercase term.
var (
	exactLanguages = map[string]struct{}{
		"javascript": {}, "typescript": {}, "python": {}, "java": {}, "go": {},
		"rust": {}, "c++": {}, "c#": {}, "php": {}, "ruby": {}, "swift": {},
		"kotlin": {}, "scala": {}, "r": {}, "perl": {},
	}
	frameworkTerms = []string{
		"reactjs", "react", "next.js", "vue", "angular", "fastapi", "flask",
		"django", "express", "node.js", "async",
	}
	devOpsTerms = []string{
		"aws", "gcp", "azure", "ec2", "lambda", "ecs", "s3", "cloudfront",
		"rds", "elasticache", "opensearch", "bigquery", "pub/sub", "pubsub",
		"data factory", "synapse analytics", "synapse", "docker", "kubernetes",
		"helm", "operators", "github actions", "jenkins", "argocd",
		"prometheus", "grafana", "loki", "jaeger", "open telemetry", "vault",
	}
	databaseTerms = []string{
		"postgresql", "mysql", "mongodb", "redis", "dynamodb", "snowflake",
		"cassandra", "elasticsearch", "oracle", "sql server",
	}
	dataTerms = []string{
		"spark", "pyspark", "pandas", "numpy", "airflow", "dbt", "kafka", "rabbitmq",
	}
)

// properNounRe accepts a raw parenthetical service as-is when it looks like
// a capitalized product name (alphanumeric plus slash, dash, ampersand).
var properNounRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9\s/\-&.]+$`)
