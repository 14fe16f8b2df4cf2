// internal/lead/scoring/research.go
package scoring

import "strings"

type keywordEntry struct {
	value    string
	keywords []string
}

// Plain substring lookups over the lowercased conversation.
var complianceKeywords = []keywordEntry{
	{"HIPAA", []string{"hipaa"}},
	{"SOC 2", []string{"soc 2", "soc2", "soc-2"}},
	{"GDPR", []string{"gdpr"}},
	{"PCI DSS", []string{"pci"}},
	{"ISO 27001", []string{"iso 27001", "iso27001"}},
	{"FedRAMP", []string{"fedramp"}},
	{"CCPA", []string{"ccpa"}},
	{"SOX", []string{"sox", "sarbanes"}},
	{"EU AI Act", []string{"eu ai act"}},
	{"NIST AI RMF", []string{"nist ai rmf", "ai rmf"}},
}

var industryKeywords = []keywordEntry{
	{"healthcare", []string{"healthcare", "health care", "hospital", "clinic", "patient", "medical", "pharma"}},
	{"financial_services", []string{"bank", "financial", "fintech", "investment", "wealth", "trading"}},
	{"insurance", []string{"insurance", "insurer", "underwriting", "claims"}},
	{"legal", []string{"law firm", "legal", "attorney"}},
	{"government", []string{"government", "public sector", "federal", "agency"}},
	{"retail", []string{"retail", "ecommerce", "e-commerce"}},
	{"manufacturing", []string{"manufactur", "factory", "supply chain"}},
	{"technology", []string{"saas", "software company", "tech company"}},
	{"education", []string{"university", "school", "education"}},
	{"energy", []string{"energy", "utility", "utilities", "oil and gas"}},
}

// DetectCompliance returns every framework mentioned, in table order.
func DetectCompliance(text string) []string {
	text = strings.ToLower(text)
	var out []string
	for _, e := range complianceKeywords {
		for _, k := range e.keywords {
			if strings.Contains(text, k) {
				out = append(out, e.value)
				break
			}
		}
	}
	return out
}

// DetectIndustry returns the first industry with a keyword in the text, or "".
func DetectIndustry(text string) string {
	text = strings.ToLower(text)
	for _, e := range industryKeywords {
		for _, k := range e.keywords {
			if strings.Contains(text, k) {
				return e.value
			}
		}
	}
	return ""
}
