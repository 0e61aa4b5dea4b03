package parse

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jobsieve/jobsieve/internal/model"
)

func TestFilterTechNames_DropsFalsePositives(t *testing.T) {
	got := filterTechNames([]string{"Go", "Remote", "Hybrid", "GDPR", "SOC2", "Docker", "ISO 27001"})
	want := []string{"Go", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterTechNames = %v, want %v", got, want)
	}
}

func TestFilterTechNames_GenericDroppedWhenSpecificPresent(t *testing.T) {
	got := filterTechNames([]string{"Kafka", "Apache Kafka", "GitHub", "GitHub Actions", "Apache", "Apache Spark"})
	for _, it := range got {
		if it == "Kafka" || it == "GitHub" || it == "Apache" {
			t.Fatalf("generic %q should be dropped, got %v", it, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 specific names, got %v", got)
	}
}

func TestFilterTechNames_GenericKeptWithoutSibling(t *testing.T) {
	got := filterTechNames([]string{"Kafka", "Redis"})
	if !reflect.DeepEqual(got, []string{"Kafka", "Redis"}) {
		t.Fatalf("bare Kafka should survive, got %v", got)
	}
}

func TestFilterTechNames_LengthLimits(t *testing.T) {
	long := "experience building scalable distributed systems in the cloud"
	got := filterTechNames([]string{long, "Azure Synapse Analytics", "Google Cloud Platform", "one two three four five six"})
	want := []string{"Azure Synapse Analytics", "Google Cloud Platform"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterTechNames = %v, want %v", got, want)
	}
}

func TestExtractTechFromText_ParenthesizedServices(t *testing.T) {
	text := "Familiarity with AWS (EC2, Lambda, RDS) and Python (Pandas, NumPy)."
	got := extractTechFromText(text, nil)

	for _, want := range []string{"AWS", "EC2", "Lambda", "RDS", "Python", "Pandas", "NumPy"} {
		if !containsName(got, want) {
			t.Errorf("missing %q in %v", want, got)
		}
	}
}

func TestExtractTechFromText_CompoundMentions(t *testing.T) {
	got := extractTechFromText("Strong JavaScript/TypeScript skills required.", nil)
	if !containsName(got, "JavaScript") || !containsName(got, "TypeScript") {
		t.Fatalf("compound mention not split: %v", got)
	}
}

func TestExtractTechFromText_CanonicalNames(t *testing.T) {
	got := extractTechFromText("We use golang, postgres and k8s in production.", nil)
	for _, want := range []string{"Go", "PostgreSQL", "Kubernetes"} {
		if !containsName(got, want) {
			t.Errorf("missing canonical %q in %v", want, got)
		}
	}
}

func TestExtractTechFromText_SkipsKnownItems(t *testing.T) {
	got := extractTechFromText("Docker and Kubernetes experience.", []string{"Docker"})
	if containsName(got, "Docker") {
		t.Fatalf("existing item re-extracted: %v", got)
	}
	if !containsName(got, "Kubernetes") {
		t.Fatalf("missing Kubernetes in %v", got)
	}
}

func TestExtractTechFromText_SkipsSinglePassOnRichShortDocs(t *testing.T) {
	existing := make([]string, 50)
	for i := range existing {
		existing[i] = strings.Repeat("x", 3) + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	got := extractTechFromText("We use Rust and Erlang.", existing)
	if containsName(got, "Rust") {
		t.Fatalf("single-term pass should be skipped, got %v", got)
	}
}

func TestCanonicalizeTech_BackfillsBothDirections(t *testing.T) {
	rec := &model.Record{
		TechStack: []string{"Go", "Docker"},
		TechCategories: model.TechCategories{
			"languages": {"Python"},
		},
	}
	canonicalizeTech(rec, "")

	if !containsName(rec.TechStack, "Python") {
		t.Fatalf("categorized item not surfaced in flat list: %v", rec.TechStack)
	}
	if !containsName(rec.TechCategories["languages"], "Go") {
		t.Fatalf("Go not classified as language: %v", rec.TechCategories)
	}
	if !containsName(rec.TechCategories["devOps"], "Docker") {
		t.Fatalf("Docker not classified as devOps: %v", rec.TechCategories)
	}
}

func TestCanonicalizeTech_FallbackScanBelowThreshold(t *testing.T) {
	rec := &model.Record{TechStack: []string{"Go"}}
	canonicalizeTech(rec, "The stack includes Redis and Terraform.")

	if !containsName(rec.TechStack, "Redis") || !containsName(rec.TechStack, "Terraform") {
		t.Fatalf("fallback scan missed items: %v", rec.TechStack)
	}
}

func TestCanonicalizeTech_Idempotent(t *testing.T) {
	text := "We use Go, Docker, AWS (EC2, Lambda) and JavaScript/TypeScript."
	rec := &model.Record{TechStack: []string{"Go", "Remote"}}
	canonicalizeTech(rec, text)

	flat := append([]string(nil), rec.TechStack...)
	cats := make(model.TechCategories, len(rec.TechCategories))
	for k, v := range rec.TechCategories {
		cats[k] = append([]string(nil), v...)
	}

	canonicalizeTech(rec, text)
	if !reflect.DeepEqual(rec.TechStack, flat) {
		t.Fatalf("flat list changed on second run:\n%v\n%v", flat, rec.TechStack)
	}
	if !reflect.DeepEqual(rec.TechCategories, cats) {
		t.Fatalf("categories changed on second run:\n%v\n%v", cats, rec.TechCategories)
	}
}

func TestClassifyTech(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"TypeScript", "languages"},
		{"Next.js", "frameworks"},
		{"PostgreSQL", "databases"},
		{"Apache Kafka", "data"},
		{"GitHub Actions", "devOps"},
		{"Microservices", "concepts"},
	}
	for _, tt := range tests {
		if got := classifyTech(tt.name); got != tt.want {
			t.Errorf("classifyTech(%s) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func containsName(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
