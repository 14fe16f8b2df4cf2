// internal/chat/intent/classifier.go
package intent

import (
	"regexp"
	"strings"

	"lead-intelligence/internal/models"
)

type Label string

const (
	DemoRequest         Label = "demo_request"
	PricingInquiry      Label = "pricing_inquiry"
	Comparison          Label = "comparison"
	ComplianceQuestion  Label = "compliance_question"
	IntegrationQuestion Label = "integration_question"
	TimelineDiscussion  Label = "timeline_discussion"
	ROIInquiry          Label = "roi_inquiry"
	CaseStudyRequest    Label = "case_study_request"
	TechnicalQuestion   Label = "technical_question"
	FeatureInquiry      Label = "feature_inquiry"
	Greeting            Label = "greeting"
	GeneralInquiry      Label = "general_inquiry"
)

type rule struct {
	label Label
	exprs []*regexp.Regexp
}

func rx(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

// Evaluated top to bottom; the first label with any matching expression wins.
var rules = []rule{
	{DemoRequest, rx(`\bdemo\b`, `\bsee\s+it\s+in\s+action\b`, `\bwalk\s*through\b`, `\btalk\s+to\s+(sales|someone|a\s+human)\b`, `\bbook\s+a\s+(call|meeting)\b`, `\btrial\b`)},
	{PricingInquiry, rx(`\bpric(e|es|ing)\b`, `\bcost(s)?\b`, `\bhow\s+much\b`, `\bquote\b`, `\blicens(e|ing)\b`, `\bbudget\b`)},
	{Comparison, rx(`\bcompar(e|ed|ing|ison)\b`, `\bvs\.?\b`, `\bversus\b`, `\bcompetitors?\b`, `\balternatives?\b`, `\bdifferent\s+from\b`, `\bbetter\s+than\b`)},
	{ComplianceQuestion, rx(`\bcomplian(t|ce)\b`, `\bregulat(ion|ory|ions)\b`, `\bhipaa\b`, `\bgdpr\b`, `\bsoc\s*-?\s*2\b`, `\baudit(s|or|ors)?\b`, `\bcertifi(ed|cation)\b`)},
	{IntegrationQuestion, rx(`\bintegrat(e|es|ion|ions)\b`, `\bconnect\s+(to|with)\b`, `\bapi\b`, `\bsdk\b`, `\bplug\s*-?\s*in\b`, `\b(langchain|openai|azure|aws|bedrock|salesforce|servicenow)\b`)},
	{TimelineDiscussion, rx(`\btimeline\b`, `\bhow\s+long\b`, `\bimplementation\s+time\b`, `\bget\s+started\b`, `\bdeploy(ment)?\s+time\b`, `\bgo[\s-]live\b`, `\bonboard(ing)?\b`)},
	{ROIInquiry, rx(`\broi\b`, `\breturn\s+on\s+investment\b`, `\bsav(e|ings)\b`, `\bbusiness\s+case\b`, `\bpayback\b`, `\bworth\s+it\b`)},
	{CaseStudyRequest, rx(`\bcase\s+stud(y|ies)\b`, `\bcustomers?\s+(like|stories|examples)\b`, `\bwho\s+(else\s+)?uses\b`, `\breferences?\b`, `\bsuccess\s+stor(y|ies)\b`)},
	{TechnicalQuestion, rx(`\barchitecture\b`, `\bhow\s+does\s+(it|this)\s+work\b`, `\bdeploy(ed|ment)?\b`, `\bon[\s-]prem(ise|ises)?\b`, `\blatency\b`, `\bkubernetes\b`, `\bself[\s-]hosted\b`, `\binfrastructure\b`)},
	{FeatureInquiry, rx(`\bfeatures?\b`, `\bcapabilit(y|ies)\b`, `\bwhat\s+(can|does)\s+(it|you|your\s+\w+)\s+do\b`, `\bdoes\s+it\s+support\b`, `\bfunctionality\b`)},
	{Greeting, rx(`^\s*(hi|hello|hey|good\s+(morning|afternoon|evening)|greetings)\b`)},
}

var affirmative = regexp.MustCompile(`(?i)^\s*(yes|yeah|yep|sure|ok(ay)?|please|sounds\s+good|go\s+on|tell\s+me\s+more)\s*[.!]?\s*$`)

// Detect maps a message to one conversational intent. A bare affirmative reply keeps the
// intent already recorded in the context.
func Detect(message string, ctx *models.UserContext) Label {
	if ctx != nil && ctx.CurrentIntent != "" && affirmative.MatchString(message) {
		return Label(ctx.CurrentIntent)
	}
	for _, r := range rules {
		for _, re := range r.exprs {
			if re.MatchString(message) {
				return r.label
			}
		}
	}
	return GeneralInquiry
}

// IsTopic reports whether the label names a subject worth tracking in topicsDiscussed.
func (l Label) IsTopic() bool {
	return l != Greeting && l != GeneralInquiry && strings.TrimSpace(string(l)) != ""
}
