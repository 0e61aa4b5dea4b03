package parse

import (
	"strings"
	"sync"

	"github.com/jobsieve/jobsieve/internal/model"
)

const (
	// Below this many technologies the service output is considered thin and
	// the lexical fallback scan runs over the raw posting text.
	minTechBeforeFallback = 80

	// The single-term pattern pass is skipped when the service already found
	// this many items and the document is shorter than shortDocChars, since
	// short documents with rich service output gain mostly noise from it.
	singleTermSkipCount = 50
	shortDocChars       = 10000

	maxTechNameLen    = 40
	maxTechNameTokens = 5
)

var (
	canonicalOnce   sync.Once
	canonicalByTerm map[string]string
)

// canonicalFor resolves a bare term to its canonical display name using the
// single-term pattern table. Returns false for terms no pattern recognizes.
func canonicalFor(term string) (string, bool) {
	canonicalOnce.Do(func() {
		canonicalByTerm = make(map[string]string, len(techPatterns)*2)
		for _, p := range techPatterns {
			canonicalByTerm[strings.ToLower(p.name)] = p.name
		}
	})
	key := strings.ToLower(strings.TrimSpace(term))
	if name, ok := canonicalByTerm[key]; ok {
		return name, true
	}
	for _, p := range techPatterns {
		if p.re.MatchString(term) {
			return p.name, true
		}
	}
	return "", false
}

// filterTechNames drops employment-arrangement and compliance terms, generic
// platform names shadowed by a more specific sibling, and over-long phrases
// that are almost always sentence fragments rather than product names.
func filterTechNames(items []string) []string {
	lowered := make([]string, len(items))
	for i, it := range items {
		lowered[i] = strings.ToLower(strings.TrimSpace(it))
	}

	hasSpecific := func(generic, specific string) bool {
		for _, l := range lowered {
			if l == generic {
				continue
			}
			if strings.HasPrefix(l, specific) {
				return true
			}
		}
		return false
	}

	out := make([]string, 0, len(items))
	for i, it := range items {
		l := lowered[i]
		if l == "" {
			continue
		}
		if _, bad := falsePositives[l]; bad {
			continue
		}
		if specific, isGeneric := genericSiblings[l]; isGeneric && hasSpecific(l, specific) {
			continue
		}
		if len(l) > maxTechNameLen || len(strings.Fields(l)) > maxTechNameTokens {
			allowed := false
			for _, a := range allowedLongNames {
				if l == a {
					allowed = true
					break
				}
			}
			if !allowed {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// extractTechFromText scans the raw posting for technology mentions the
// service missed. existing carries what the service already found so the
// noisy single-term pass can be skipped on short, well-covered documents.
func extractTechFromText(text string, existing []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		seen[strings.ToLower(it)] = struct{}{}
	}

	var found []string
	add := func(name string) {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		found = append(found, name)
	}

	skipSingle := len(existing) >= singleTermSkipCount && len(text) < shortDocChars
	if !skipSingle {
		for _, p := range techPatterns {
			if p.re.MatchString(text) {
				add(p.name)
			}
		}
	}

	for _, cp := range compoundPatterns {
		if cp.re.MatchString(text) {
			for _, name := range cp.names {
				add(name)
			}
		}
	}

	for i, pre := range parenPatterns {
		for _, m := range pre.FindAllStringSubmatch(text, -1) {
			platform, services := strings.TrimSpace(m[1]), m[2]
			platCanonical, platKnown := canonicalFor(platform)
			// The generic trailing pattern fires on any "word (list)" form;
			// only a recognized platform qualifies there.
			if i == len(parenPatterns)-1 && !platKnown {
				continue
			}
			if platKnown {
				add(platCanonical)
			}
			for _, raw := range strings.Split(services, ",") {
				svc := strings.TrimSpace(raw)
				if svc == "" {
					continue
				}
				if name, ok := serviceNames[strings.ToLower(svc)]; ok {
					add(name)
					continue
				}
				if name, ok := canonicalFor(svc); ok {
					add(name)
					continue
				}
				if properNounRe.MatchString(svc) && len(svc) <= maxTechNameLen {
					add(svc)
				}
			}
		}
	}

	return found
}

// classifyTech buckets a flat technology name into a techStackNormalized
// category using exact language names and substring membership lists.
func classifyTech(name string) string {
	l := strings.ToLower(name)
	if _, ok := exactLanguages[l]; ok {
		return "languages"
	}
	for _, t := range frameworkTerms {
		if strings.Contains(l, t) {
			return "frameworks"
		}
	}
	for _, t := range databaseTerms {
		if strings.Contains(l, t) {
			return "databases"
		}
	}
	for _, t := range dataTerms {
		if strings.Contains(l, t) {
			return "data"
		}
	}
	for _, t := range devOpsTerms {
		if strings.Contains(l, t) {
			return "devOps"
		}
	}
	return "concepts"
}

// canonicalizeTech reconciles a record's flat techStack with its categorized
// techStackNormalized map against the raw posting text. It is idempotent:
// running it twice over its own output changes nothing.
func canonicalizeTech(rec *model.Record, text string) {
	flat := dedupeList(rec.TechStack, maxTechItemLen)

	// Categorized entries missing from the flat list get surfaced there.
	flatKeys := make(map[string]struct{}, len(flat))
	for _, it := range flat {
		flatKeys[strings.ToLower(it)] = struct{}{}
	}
	for _, key := range model.TechCategoryKeys {
		for _, it := range rec.TechCategories[key] {
			if _, ok := flatKeys[strings.ToLower(it)]; !ok {
				flatKeys[strings.ToLower(it)] = struct{}{}
				flat = append(flat, it)
			}
		}
	}

	flat = filterTechNames(flat)

	if len(flat) < minTechBeforeFallback && text != "" {
		flat = append(flat, extractTechFromText(text, flat)...)
		flat = filterTechNames(flat)
	}
	flat = dedupeList(flat, maxTechItemLen)

	// Flat entries absent from every category get classified and back-filled.
	categorized := make(map[string]struct{})
	for _, key := range model.TechCategoryKeys {
		for _, it := range rec.TechCategories[key] {
			categorized[strings.ToLower(it)] = struct{}{}
		}
	}
	for _, it := range flat {
		if _, ok := categorized[strings.ToLower(it)]; ok {
			continue
		}
		key := classifyTech(it)
		if rec.TechCategories == nil {
			rec.TechCategories = make(model.TechCategories)
		}
		rec.TechCategories[key] = append(rec.TechCategories[key], it)
	}
	for key := range rec.TechCategories {
		rec.TechCategories[key] = dedupeList(rec.TechCategories[key], maxTechItemLen)
		if len(rec.TechCategories[key]) == 0 {
			delete(rec.TechCategories, key)
		}
	}
	if len(rec.TechCategories) == 0 {
		rec.TechCategories = nil
	}

	if len(rec.CollaborationTools) == 0 && rec.TechCategories != nil {
		rec.CollaborationTools = append([]string(nil), rec.TechCategories["collaborationTools"]...)
	}
	rec.CollaborationTools = dedupeList(rec.CollaborationTools, maxCollabItemLen)

	rec.TechStack = flat
}
