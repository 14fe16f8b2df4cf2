// internal/chat/extraction/patterns.go
package extraction

import "regexp"

type pattern struct {
	value string
	exprs []*regexp.Regexp
}

func rx(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

// Industry patterns are evaluated in order; the first matching value wins.
var industryPatterns = []pattern{
	{"healthcare", rx(`\bhealth\s*care\b`, `\bhospitals?\b`, `\bclinic(al|s)?\b`, `\bpatients?\b`, `\bmedical\b`, `\bpharma(ceutical)?s?\b`)},
	{"financial_services", rx(`\bbank(s|ing)?\b`, `\bfinancial\b`, `\bfintech\b`, `\bwealth\s+management\b`, `\btrading\b`, `\blending\b`)},
	{"insurance", rx(`\binsur(ance|er|ers)\b`, `\bunderwrit(ing|ers?)\b`, `\bclaims?\b`, `\bpolicyholders?\b`)},
	{"legal", rx(`\blaw\s+firms?\b`, `\blegal\b`, `\battorneys?\b`, `\blawyers?\b`)},
	{"government", rx(`\bgovernment\b`, `\bpublic\s+sector\b`, `\bfederal\b`, `\bagency\b`, `\bmunicipal\b`)},
	{"retail", rx(`\bretail(er|ers)?\b`, `\be-?commerce\b`, `\bstores?\b`, `\bshoppers?\b`)},
	{"manufacturing", rx(`\bmanufactur(ing|er|ers)\b`, `\bfactor(y|ies)\b`, `\bsupply\s+chain\b`, `\bindustrial\b`)},
	{"technology", rx(`\bsaas\b`, `\bsoftware\s+(company|vendor|firm)\b`, `\btech\s+(company|startup|firm)\b`, `\bplatform\s+company\b`)},
	{"education", rx(`\buniversit(y|ies)\b`, `\bschools?\b`, `\bedtech\b`, `\beducation(al)?\b`, `\bstudents?\b`)},
	{"energy", rx(`\benergy\b`, `\butilit(y|ies)\b`, `\boil\s+and\s+gas\b`, `\bpower\s+grid\b`, `\brenewables?\b`)},
}

var compliancePatterns = []pattern{
	{"hipaa", rx(`\bhipaa\b`, `\bphi\b`, `\bprotected\s+health\s+information\b`)},
	{"soc2", rx(`\bsoc\s*-?\s*2\b`, `\bsoc\s+ii\b`)},
	{"gdpr", rx(`\bgdpr\b`, `\bgeneral\s+data\s+protection\b`)},
	{"pci_dss", rx(`\bpci(\s*-?\s*dss)?\b`, `\bcardholder\s+data\b`)},
	{"iso27001", rx(`\biso\s*-?\s*27001\b`)},
	{"fedramp", rx(`\bfedramp\b`)},
	{"ccpa", rx(`\bccpa\b`, `\bcalifornia\s+consumer\s+privacy\b`)},
	{"sox", rx(`\bsox\b`, `\bsarbanes[\s-]+oxley\b`)},
	{"eu_ai_act", rx(`\beu\s+ai\s+act\b`, `\bai\s+act\b`)},
}

var painPointPatterns = []pattern{
	{"audit_trail", rx(`\baudit\s*(trail|log)s?\b`, `\btraceab(le|ility)\b`, `\bwho\s+did\s+what\b`)},
	{"compliance_burden", rx(`\bcompliance\s+(burden|overhead|headache|work)\b`, `\bmanual\s+(audit|review|reporting)\b`, `\bregulat(ory|ors)\s+pressure\b`)},
	{"shadow_ai", rx(`\bshadow\s+ai\b`, `\bunsanctioned\b`, `\bunapproved\s+(tools?|models?|agents?)\b`)},
	{"data_leakage", rx(`\bdata\s+(leak(age|s)?|exfiltration|loss)\b`, `\bleak(ing|ed)?\s+(data|pii|secrets)\b`, `\bsensitive\s+data\b`)},
	{"visibility", rx(`\bvisibility\b`, `\bblind\s+spots?\b`, `\bdon'?t\s+know\s+what\b`, `\bno\s+insight\b`)},
	{"access_control", rx(`\baccess\s+control\b`, `\bpermissions?\b`, `\brbac\b`, `\bleast\s+privilege\b`)},
	{"hallucination", rx(`\bhallucinat(e|es|ion|ions|ing)\b`, `\bwrong\s+answers?\b`, `\bmade[\s-]up\b`)},
	{"cost_control", rx(`\bcosts?\s+(control|overrun|spiral|management)\b`, `\btoken\s+(spend|costs?)\b`, `\bbudget\s+overrun\b`)},
	{"policy_enforcement", rx(`\bpolicy\s+enforcement\b`, `\benforce\s+polic(y|ies)\b`, `\bguardrails?\b`)},
	{"incident_response", rx(`\bincident(s|\s+response)?\b`, `\bkill\s*switch\b`, `\brogue\s+agents?\b`)},
	{"scaling_governance", rx(`\bscal(e|ing)\s+(governance|oversight)\b`, `\btoo\s+many\s+agents\b`, `\bagent\s+sprawl\b`)},
}

var useCasePatterns = []pattern{
	{"customer_service", rx(`\bcustomer\s+(service|support)\b`, `\bhelp\s*desk\b`, `\bcontact\s+center\b`)},
	{"claims_processing", rx(`\bclaims?\s+(processing|handling|automation)\b`)},
	{"document_processing", rx(`\bdocument\s+(processing|review|extraction)\b`, `\bcontract\s+review\b`, `\bocr\b`)},
	{"fraud_detection", rx(`\bfraud(\s+detection)?\b`, `\banti[\s-]money\s+laundering\b`, `\baml\b`)},
	{"underwriting", rx(`\bunderwriting\b`, `\brisk\s+assessment\b`)},
	{"clinical_documentation", rx(`\bclinical\s+(documentation|notes)\b`, `\bmedical\s+(scribe|notes)\b`, `\bcharting\b`)},
	{"code_generation", rx(`\bcod(e|ing)\s+(generation|assistants?|agents?)\b`, `\bcopilot\b`)},
	{"sales_automation", rx(`\bsales\s+(automation|agents?|outreach)\b`, `\blead\s+generation\b`)},
	{"hr_automation", rx(`\bhr\s+(automation|agents?)\b`, `\brecruit(ing|ment)\b`, `\bonboarding\b`)},
	{"data_analysis", rx(`\bdata\s+analy(sis|tics)\b`, `\breporting\s+agents?\b`, `\bbusiness\s+intelligence\b`)},
}

var (
	agentCountPattern  = regexp.MustCompile(`(?i)\b(\d{1,6})\s+(?:ai\s+)?(?:agents?|workflows?|bots?)\b`)
	companyNamePattern = regexp.MustCompile(`(?:[Ww]ork(?:ing)? (?:at|for)|[Ff]rom|[Ww]e(?:'|’)re|[Ww]e are|I(?:'|’)m (?:at|with)|I am (?:at|with))\s+([A-Z][\w&'.-]*(?:\s+[A-Z][\w&'.-]*)*)`)
	emailPattern       = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
)

// Capitalized words that follow a connector but are not company names.
var companyStopWords = map[string]bool{
	"A": true, "An": true, "The": true, "I": true, "We": true, "Our": true, "Looking": true,
	"Currently": true, "Just": true, "Not": true, "Still": true, "Trying": true, "Using": true,
}
